package scrape

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/fetch"
)

// RunStats counts what happened to each stub of one run.
type RunStats struct {
	Total      int
	Fetched    int
	Reused     int
	Failed     int
	Discarded  int
	Errored    int
	Saved      int
	SaveFailed int
}

// SequentialFetcher processes stubs one at a time: each detail fetch finishes
// before the next starts, and no single failure stops the run.
type SequentialFetcher struct {
	fetcher    fetch.Fetcher
	dedup      *DuplicateFilter
	extractor  *catalog.Extractor
	classifier *catalog.Classifier
	sink       ResultSink
}

func NewSequentialFetcher(fetcher fetch.Fetcher, dedup *DuplicateFilter, extractor *catalog.Extractor,
	classifier *catalog.Classifier, sink ResultSink) *SequentialFetcher {
	return &SequentialFetcher{
		fetcher:    fetcher,
		dedup:      dedup,
		extractor:  extractor,
		classifier: classifier,
		sink:       sink,
	}
}

// Run returns one record per stub, in stub order, minus discarded records.
// A stub whose page could not be fetched is returned unenriched and is not
// saved. When ctx is cancelled the records processed so far are returned
// with ctx.Err().
func (s *SequentialFetcher) Run(ctx context.Context, stubs []catalog.ProductLink) ([]catalog.ProductRecord, RunStats, error) {
	stats := RunStats{Total: len(stubs)}
	records := make([]catalog.ProductRecord, 0, len(stubs))

	for i, stub := range stubs {
		select {
		case <-ctx.Done():
			slog.Warn("Fetch loop cancelled", "processed", i, "total", len(stubs))
			return records, stats, ctx.Err()
		default:
		}

		if known := s.dedup.Check(stub.Link); known != nil {
			stats.Reused++
			s.save(*known, &stats)
			records = append(records, *known)
			continue
		}

		data, err := s.fetcher.Fetch(ctx, stub.Link)
		if err != nil {
			stats.Failed++
			slog.Warn("Detail fetch failed", "link", stub.Link, "error", err)
			records = append(records, stub.Record())
			continue
		}
		stats.Fetched++

		extraction := s.extractor.Run(data, stub)
		if extraction.Record.Error != "" {
			stats.Errored++
			slog.Warn("Detail page extracted with errors", "link", stub.Link, "error", extraction.Record.Error)
		}

		record, reason := s.classifier.Run(extraction)
		if record == nil {
			stats.Discarded++
			slog.Debug("Record discarded", "link", stub.Link, "reason", reason)
			continue
		}

		s.save(*record, &stats)
		records = append(records, *record)
	}

	return records, stats, nil
}

func (s *SequentialFetcher) save(record catalog.ProductRecord, stats *RunStats) {
	if err := s.sink.Save(record); err != nil {
		stats.SaveFailed++
		slog.Error("Failed to save record", "link", record.Link, "error", err)
		return
	}
	stats.Saved++
}
