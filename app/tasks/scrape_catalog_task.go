package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
	"github.com/lysyi3m/wine-comb/app/scrape"
)

type ScrapeCatalogTask struct {
	Task
	Mode    database.RunMode
	runner  CatalogRunner
	runRepo database.RunRepository
	records []catalog.ProductRecord
}

func NewScrapeCatalogTask(source string, mode database.RunMode, runner CatalogRunner, runRepo database.RunRepository) *ScrapeCatalogTask {
	return &ScrapeCatalogTask{
		Task:    NewTask(TaskTypeScrapeCatalog, source),
		Mode:    mode,
		runner:  runner,
		runRepo: runRepo,
	}
}

func (t *ScrapeCatalogTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	runID, err := t.runRepo.CreateRun(t.Source, t.Mode, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}

	var stats scrape.RunStats
	var runErr error

	switch t.Mode {
	case database.RunModeReplay:
		t.records, runErr = t.runner.Replay()
		stats.Total = len(t.records)
	default:
		t.records, stats, runErr = t.runner.Live(ctx)
	}

	run := database.Run{
		ID:         runID,
		Total:      stats.Total,
		Fetched:    stats.Fetched,
		Reused:     stats.Reused,
		Failed:     stats.Failed,
		Discarded:  stats.Discarded,
		Errored:    stats.Errored,
		Saved:      stats.Saved,
		SaveFailed: stats.SaveFailed,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := t.runRepo.FinishRun(run); err != nil {
		slog.Error("Failed to record run result", "source", t.Source, "run_id", runID, "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("failed to run %s scrape: %w", t.Mode, runErr)
	}

	slog.Info("Task completed",
		"type", "ScrapeCatalog",
		"source", t.Source,
		"mode", string(t.Mode),
		"duration", t.GetDuration(),
		"total", stats.Total,
		"fetched", stats.Fetched,
		"reused", stats.Reused,
		"failed", stats.Failed,
		"discarded", stats.Discarded,
		"errored", stats.Errored,
		"saved", stats.Saved,
		"records", len(t.records))

	return nil
}

// Records returns the run's output sequence once Execute has succeeded.
func (t *ScrapeCatalogTask) Records() []catalog.ProductRecord {
	return t.records
}
