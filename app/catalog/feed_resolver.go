package catalog

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const feedRowSeparator = "\r\n"

// Price first, SKU second; any other shape means the row is not a product.
var feedTokenPattern = regexp.MustCompile(`\$\d[\d,]*\.\d+|sku=\d+`)

// FeedResolver turns the retailer's bulk export into product stubs.
type FeedResolver struct {
	profile *Profile
}

func NewFeedResolver(profile *Profile) *FeedResolver {
	return &FeedResolver{profile: profile}
}

// Run parses the feed text. Row 0 is a header. Rows failing the category,
// size or token checks are skipped silently; order is preserved and
// duplicates are kept.
func (r *FeedResolver) Run(text string) []ProductLink {
	rows := strings.Split(text, feedRowSeparator)
	if len(rows) < 2 {
		return nil
	}

	links := make([]ProductLink, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		link, ok := r.resolveRow(row)
		if !ok {
			skipped++
			continue
		}
		links = append(links, link)
	}

	slog.Debug("Feed resolved", "profile", r.profile.Name, "rows", len(rows)-1, "links", len(links), "skipped", skipped)

	return links
}

func (r *FeedResolver) resolveRow(row string) (ProductLink, bool) {
	if !r.hasCategory(row) {
		return ProductLink{}, false
	}

	// Plain substring checks: "3l" also hits e.g. "13l" or "3liter".
	lowered := strings.ToLower(row)
	for _, token := range r.profile.SizeExclusions {
		if strings.Contains(lowered, strings.ToLower(token)) {
			return ProductLink{}, false
		}
	}

	matches := feedTokenPattern.FindAllString(row, -1)
	if len(matches) != 2 {
		return ProductLink{}, false
	}
	if !strings.HasPrefix(matches[0], "$") || !strings.HasPrefix(matches[1], "sku=") {
		return ProductLink{}, false
	}

	price, err := strconv.ParseFloat(cleanNumber(matches[0]), 64)
	if err != nil {
		return ProductLink{}, false
	}

	qoh := PlaceholderQOH
	return ProductLink{
		Link:        r.profile.BaseURL + r.profile.DetailPath + "?" + matches[1],
		ActualPrice: &price,
		QOH:         &qoh,
	}, true
}

func (r *FeedResolver) hasCategory(row string) bool {
	for _, category := range r.profile.Categories {
		if strings.Contains(row, category) {
			return true
		}
	}
	return false
}
