package catalog

import (
	"testing"
)

func TestListingParser_Run(t *testing.T) {
	parser := NewListingParser(DefaultProfile())

	page := `<html><body><div class="results-block">
		<div class="result"><div class="result-desc"><a href="/p/i?i=100234" title="2015 Chateau Test">2015 Chateau Test</a></div></div>
		<div class="result"><div class="result-desc"><a title="No link">No link</a></div></div>
		<div class="result"><div class="result-desc"><a href="detail.asp?sku=77" title=" NV Bubbles ">NV Bubbles</a></div></div>
	</div></body></html>`

	links, err := parser.Run([]byte(page))
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].Link != "http://www.klwines.com/p/i?i=100234" {
		t.Errorf("Expected first link 'http://www.klwines.com/p/i?i=100234', got '%s'", links[0].Link)
	}
	if links[0].FullWineName != "2015 Chateau Test" {
		t.Errorf("Expected first name '2015 Chateau Test', got '%s'", links[0].FullWineName)
	}
	if links[1].Link != "http://www.klwines.com/detail.asp?sku=77" {
		t.Errorf("Expected second link 'http://www.klwines.com/detail.asp?sku=77', got '%s'", links[1].Link)
	}
	if links[1].FullWineName != "NV Bubbles" {
		t.Errorf("Expected trimmed name 'NV Bubbles', got '%s'", links[1].FullWineName)
	}
	if links[0].ActualPrice != nil || links[0].QOH != nil {
		t.Errorf("Expected listing stubs without price or qoh")
	}
}

func TestListingParser_Run_Empty(t *testing.T) {
	parser := NewListingParser(DefaultProfile())

	if _, err := parser.Run(nil); err == nil {
		t.Errorf("Expected error for empty page")
	}
}

func TestArrivalsParser_Run(t *testing.T) {
	parser := NewArrivalsParser(DefaultProfile())

	rss := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>New Arrivals</title>
    <link>http://www.klwines.com</link>
    <description>Just landed</description>
    <item>
      <title>2019 Test Riesling</title>
      <link>http://www.klwines.com/detail.asp?sku=555</link>
    </item>
    <item>
      <title>Relative link</title>
      <link>/detail.asp?sku=556</link>
    </item>
    <item>
      <title>Elsewhere</title>
      <link>https://example.com/wine</link>
    </item>
    <item>
      <title>No link</title>
    </item>
  </channel>
</rss>`

	links, err := parser.Run([]byte(rss))
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 2 {
		t.Fatalf("Expected 2 links from the retailer's site, got %d", len(links))
	}
	if links[0].Link != "http://www.klwines.com/detail.asp?sku=555" {
		t.Errorf("Expected first link 'http://www.klwines.com/detail.asp?sku=555', got '%s'", links[0].Link)
	}
	if links[0].FullWineName != "2019 Test Riesling" {
		t.Errorf("Expected name '2019 Test Riesling', got '%s'", links[0].FullWineName)
	}
	if links[1].Link != "http://www.klwines.com/detail.asp?sku=556" {
		t.Errorf("Expected relative link to be resolved, got '%s'", links[1].Link)
	}
}

func TestArrivalsParser_Run_Invalid(t *testing.T) {
	parser := NewArrivalsParser(DefaultProfile())

	if _, err := parser.Run([]byte("not a feed")); err == nil {
		t.Errorf("Expected error for invalid feed")
	}
}
