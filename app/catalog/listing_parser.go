package catalog

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingParser reads product links off a search-results page.
type ListingParser struct {
	profile *Profile
}

func NewListingParser(profile *Profile) *ListingParser {
	return &ListingParser{profile: profile}
}

func (p *ListingParser) Run(data []byte) ([]ProductLink, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	var links []ProductLink
	doc.Find("div.results-block div.result").Each(func(_ int, result *goquery.Selection) {
		anchor := result.Find("a").First()
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		title, _ := anchor.Attr("title")
		links = append(links, ProductLink{
			Link:         p.profile.BaseURL + "/" + strings.TrimLeft(strings.TrimSpace(href), "/"),
			FullWineName: cleanText(title),
		})
	})

	return links, nil
}
