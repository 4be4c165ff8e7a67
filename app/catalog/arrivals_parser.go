package catalog

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"
)

// ArrivalsParser turns the retailer's new-arrivals RSS/Atom feed into stubs.
// Items without a link to the retailer's own site are ignored.
type ArrivalsParser struct {
	profile      *Profile
	gofeedParser *gofeed.Parser
}

func NewArrivalsParser(profile *Profile) *ArrivalsParser {
	return &ArrivalsParser{
		profile:      profile,
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *ArrivalsParser) Run(data []byte) ([]ProductLink, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse arrivals feed: %w", err)
	}

	base, err := url.Parse(p.profile.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	links := make([]ProductLink, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		ref, err := url.Parse(item.Link)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			continue
		}

		links = append(links, ProductLink{
			Link:         resolved.String(),
			FullWineName: cleanText(item.Title),
		})
	}

	return links, nil
}
