package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	parentheticalPattern = regexp.MustCompile(`\(.+\)`)
	dollarPattern        = regexp.MustCompile(`\$\d[\d,]*(?:\.\d+)?`)
)

// Checked in order; the first marker found in the name wins.
var bottleSizeMarkers = []struct {
	pattern *regexp.Regexp
	size    int
}{
	{regexp.MustCompile(`(?i)187\s?ml`), 187},
	{regexp.MustCompile(`(?i)375\s?ml`), 375},
	{regexp.MustCompile(`(?i)1\.5\s?l`), 1500},
	{regexp.MustCompile(`(?i)3\.0\s?l`), 3000},
}

// Extractor converts a product detail page into a catalog record.
type Extractor struct {
	profile *Profile
	reviews *ReviewParser
}

func NewExtractor(profile *Profile) *Extractor {
	return &Extractor{
		profile: profile,
		reviews: NewReviewParser(profile),
	}
}

// Run extracts a record from the page. It never fails: structural problems
// are reported in the record's Error field and the partially-built record is
// returned. The result depends only on data and stub.
func (e *Extractor) Run(data []byte, stub ProductLink) (extraction Extraction) {
	extraction.Record = stub.Record()

	defer func() {
		if r := recover(); r != nil {
			extraction.Record.Error = fmt.Sprintf("unexpected page structure: %v", r)
			slog.Error("Failed to process product page", "link", stub.Link, "error", extraction.Record.Error)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		extraction.Record.Error = fmt.Sprintf("failed to parse product page: %v", err)
		slog.Error("Failed to process product page", "link", stub.Link, "error", err)
		return extraction
	}

	if err := e.extract(doc, &extraction); err != nil {
		extraction.Record.Error = err.Error()
		slog.Error("Failed to process product page", "link", stub.Link, "error", err)
	}

	return extraction
}

func (e *Extractor) extract(doc *goquery.Document, extraction *Extraction) error {
	record := &extraction.Record
	var errs []error

	record.FullWineName = e.extractName(doc)
	record.Image = e.extractImage(doc)
	record.ActualPrice = e.extractPrice(doc)

	qoh, err := e.extractInventory(doc)
	if err != nil {
		errs = append(errs, err)
	}
	record.QOH = qoh

	attrs := e.extractAttributes(doc)
	attrs.applyTo(record)
	extraction.VarietalFound = attrs.varietalFound
	extraction.VarietalName = attrs.varietal

	record.BottleSize = bottleSize(record.FullWineName)

	if vintage, ok := leadingInt(firstN(record.FullWineName, 4)); ok && vintage > 0 {
		record.Vintage = vintage
		record.NonVintage = false
	} else {
		record.Vintage = 0
		record.NonVintage = true
	}

	reviews, err := e.reviews.Run(doc)
	if err != nil {
		errs = append(errs, err)
	}
	record.Reviews = reviews

	return errors.Join(errs...)
}

func (e *Extractor) extractName(doc *goquery.Document) string {
	name := cleanText(doc.Find("h1").Text())
	// Drops annotations such as "(Previously X)".
	name = parentheticalPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func (e *Extractor) extractImage(doc *goquery.Document) string {
	src, ok := doc.Find("div.col-a div.productImg a img").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return ""
	}

	base, err := url.Parse(e.profile.BaseURL)
	if err != nil {
		return e.profile.BaseURL + src
	}
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return e.profile.BaseURL + src
	}
	return base.ResolveReference(ref).String()
}

func (e *Extractor) extractPrice(doc *goquery.Document) Price {
	text := doc.Find("div.result-info span.global-pop-color strong").Text()

	// Hidden prices (login required) have no dollar amount at all.
	match := dollarPattern.FindString(text)
	if match == "" {
		return Price{}
	}

	value, err := strconv.ParseFloat(cleanNumber(match), 64)
	if err != nil {
		return Price{}
	}
	return PriceOf(value)
}

// extractInventory sums the quantity column over every location.
func (e *Extractor) extractInventory(doc *goquery.Document) (int, error) {
	qoh := 0
	var rowErr error

	doc.Find("div.inventory div.column tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}

		quantity := cleanText(cells.Last().Text())
		quantity = strings.TrimPrefix(quantity, ">")

		value, ok := leadingInt(quantity)
		if !ok {
			location := cleanText(cells.First().Text())
			rowErr = fmt.Errorf("invalid inventory quantity %q at %q", quantity, location)
			return false
		}
		qoh += value
		return true
	})

	return qoh, rowErr
}

func (e *Extractor) extractAttributes(doc *goquery.Document) attributes {
	var attrs attributes

	doc.Find("div.addtl-info-block tr").Each(func(_ int, row *goquery.Selection) {
		label := cleanText(row.Find("td.detail_td1").Text())

		handler, ok := attributeRows[label]
		if !ok {
			return
		}

		cell := row.Find("td.detail_td")
		if !handler.plainCell {
			cell = cell.Find("h3")
		}
		attrs = handler.apply(attrs, cleanText(cell.Text()))
	})

	return attrs
}

func bottleSize(name string) int {
	for _, marker := range bottleSizeMarkers {
		if marker.pattern.MatchString(name) {
			return marker.size
		}
	}
	return DefaultBottleSize
}
