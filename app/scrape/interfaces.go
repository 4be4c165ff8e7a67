package scrape

import (
	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/database"
)

// ResultSink stores the accepted records of the current run.
// Lookup returns nil, nil for an unknown link.
type ResultSink interface {
	Lookup(link string) (*catalog.ProductRecord, error)
	Save(record catalog.ProductRecord) error
	ListAll() ([]catalog.ProductRecord, error)
	Clear() error
}

// KnownCatalog answers whether a link was already scraped in an earlier run.
type KnownCatalog interface {
	Lookup(link string) (*catalog.ProductRecord, error)
}

var (
	_ ResultSink   = (database.ProductRepository)(nil)
	_ KnownCatalog = (database.CatalogRepository)(nil)
)
