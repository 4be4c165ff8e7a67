package scrape

import (
	"log/slog"

	"github.com/lysyi3m/wine-comb/app/catalog"
)

// DuplicateFilter short-circuits stubs whose link is already in the known
// catalog, so their detail pages are not fetched again.
type DuplicateFilter struct {
	known KnownCatalog
}

func NewDuplicateFilter(known KnownCatalog) *DuplicateFilter {
	return &DuplicateFilter{known: known}
}

// Check returns the stored record for the link, or nil when the stub has to
// be fetched. Lookup failures count as a miss.
func (f *DuplicateFilter) Check(link string) *catalog.ProductRecord {
	if f.known == nil {
		return nil
	}

	record, err := f.known.Lookup(link)
	if err != nil {
		slog.Warn("Known catalog lookup failed, fetching instead", "link", link, "error", err)
		return nil
	}

	return record
}
