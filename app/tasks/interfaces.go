package tasks

import (
	"context"

	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
	"github.com/lysyi3m/wine-comb/app/scrape"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to queue runs.
// Example usage:
//
//	scheduler := NewScheduler(profile, runner, productRepo, catalogRepo, runRepo, interval, taskTimeout, autoMerge)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.ScheduleScrape(database.RunModeLive)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	ScheduleScrape(mode database.RunMode) error
	ScheduleMerge() error
}

// CatalogRunner runs the pipeline for one retailer profile.
type CatalogRunner interface {
	Live(ctx context.Context) ([]catalog.ProductRecord, scrape.RunStats, error)
	Replay() ([]catalog.ProductRecord, error)
}

var _ CatalogRunner = (*scrape.Runner)(nil)
