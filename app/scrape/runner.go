package scrape

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/wine-comb/app/catalog"
	"github.com/lysyi3m/wine-comb/app/fetch"
)

// Runner drives a whole run for one retailer profile.
type Runner struct {
	profile  *catalog.Profile
	fetcher  fetch.Fetcher
	sink     ResultSink
	resolver *catalog.FeedResolver
	listing  *catalog.ListingParser
	arrivals *catalog.ArrivalsParser
	loop     *SequentialFetcher
}

func NewRunner(profile *catalog.Profile, fetcher fetch.Fetcher, sink ResultSink, known KnownCatalog) *Runner {
	return &Runner{
		profile:  profile,
		fetcher:  fetcher,
		sink:     sink,
		resolver: catalog.NewFeedResolver(profile),
		listing:  catalog.NewListingParser(profile),
		arrivals: catalog.NewArrivalsParser(profile),
		loop: NewSequentialFetcher(fetcher, NewDuplicateFilter(known),
			catalog.NewExtractor(profile), catalog.NewClassifier(), sink),
	}
}

// Live clears the result store, resolves stubs from the profile's sources and
// runs the fetch loop. Only a failed clear or feed download aborts the run.
func (r *Runner) Live(ctx context.Context) ([]catalog.ProductRecord, RunStats, error) {
	if err := r.sink.Clear(); err != nil {
		return nil, RunStats{}, fmt.Errorf("failed to clear results: %w", err)
	}

	stubs, err := r.Stubs(ctx)
	if err != nil {
		return nil, RunStats{}, err
	}

	slog.Info("Fetching detail pages", "profile", r.profile.Name, "stubs", len(stubs))

	return r.loop.Run(ctx, stubs)
}

// Replay returns the previous run's persisted records without fetching.
func (r *Runner) Replay() ([]catalog.ProductRecord, error) {
	records, err := r.sink.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return records, nil
}

// Stubs collects feed stubs, then listing page stubs, then arrivals stubs.
// Listing pages and the arrivals feed are optional sources: their failures
// are logged and skipped.
func (r *Runner) Stubs(ctx context.Context) ([]catalog.ProductLink, error) {
	data, err := r.fetcher.Fetch(ctx, r.profile.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	stubs := r.resolver.Run(string(data))
	feedCount := len(stubs)

	for _, listingURL := range r.profile.ListingURLs {
		page, err := r.fetcher.Fetch(ctx, listingURL)
		if err != nil {
			slog.Warn("Listing page fetch failed", "url", listingURL, "error", err)
			continue
		}

		links, err := r.listing.Run(page)
		if err != nil {
			slog.Warn("Listing page parse failed", "url", listingURL, "error", err)
			continue
		}
		stubs = append(stubs, links...)
	}
	listingCount := len(stubs) - feedCount

	if r.profile.ArrivalsFeedURL != "" {
		data, err := r.fetcher.Fetch(ctx, r.profile.ArrivalsFeedURL)
		if err != nil {
			slog.Warn("Arrivals feed fetch failed", "url", r.profile.ArrivalsFeedURL, "error", err)
		} else if links, err := r.arrivals.Run(data); err != nil {
			slog.Warn("Arrivals feed parse failed", "url", r.profile.ArrivalsFeedURL, "error", err)
		} else {
			stubs = append(stubs, links...)
		}
	}

	slog.Debug("Stubs resolved", "profile", r.profile.Name, "feed", feedCount, "listing", listingCount,
		"arrivals", len(stubs)-feedCount-listingCount)

	return stubs, nil
}
