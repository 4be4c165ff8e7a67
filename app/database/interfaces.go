package database

import (
	"time"

	"github.com/lysyi3m/wine-comb/app/catalog"
)

// ProductRepository holds the current run's accepted records for one source.
// Lookup returns nil, nil when the link is not stored.
type ProductRepository interface {
	Lookup(link string) (*catalog.ProductRecord, error)
	Save(record catalog.ProductRecord) error
	ListAll() ([]catalog.ProductRecord, error)
	Clear() error
	Count() (int, error)
}

// CatalogRepository holds records known from earlier runs, keyed by link.
type CatalogRepository interface {
	Lookup(link string) (*catalog.ProductRecord, error)
	Upsert(record catalog.ProductRecord) error
	Count() (int, error)
}

type RunRepository interface {
	CreateRun(source string, mode RunMode, startedAt time.Time) (int64, error)
	FinishRun(run Run) error
	GetLatestRun(source string, mode RunMode) (*Run, error)
	GetRunCount(source string) (int, error)
}
