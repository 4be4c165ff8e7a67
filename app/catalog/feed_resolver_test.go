package catalog

import (
	"strings"
	"testing"
)

func feedText(rows ...string) string {
	header := "Name\tCategory\tPrice\tLink"
	return strings.Join(append([]string{header}, rows...), "\r\n")
}

func TestFeedResolver_Run_ValidRow(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	links := resolver.Run(feedText("2015 Chateau Test\tWine - Red\t$24.99\thttp://www.klwines.com/detail.asp?sku=100234"))

	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}

	link := links[0]
	if link.Link != "http://www.klwines.com/detail.asp?sku=100234" {
		t.Errorf("Expected link 'http://www.klwines.com/detail.asp?sku=100234', got '%s'", link.Link)
	}
	if link.ActualPrice == nil || *link.ActualPrice != 24.99 {
		t.Errorf("Expected price 24.99, got %v", link.ActualPrice)
	}
	if link.QOH == nil || *link.QOH != 12 {
		t.Errorf("Expected placeholder qoh 12, got %v", link.QOH)
	}
}

func TestFeedResolver_Run_SizeExclusion(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	links := resolver.Run(feedText("2015 Chateau Test 375ml\tWine - Red\t$24.99\tsku=100234"))

	if len(links) != 0 {
		t.Errorf("Expected row with 375ml to be skipped, got %d links", len(links))
	}
}

func TestFeedResolver_Run_SizeExclusionIsCaseInsensitive(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	links := resolver.Run(feedText(
		"Magnum 1.5L\tWine - Red\t$80.00\tsku=1",
		"Jeroboam 3.0L\tWine - Red\t$180.00\tsku=2",
	))

	if len(links) != 0 {
		t.Errorf("Expected large formats to be skipped, got %d links", len(links))
	}
}

func TestFeedResolver_Run_SubstringExclusionFalsePositive(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	// "13L" is not a bottle size but still contains the "3l" token.
	links := resolver.Run(feedText("Lot 13L Cabernet\tWine - Red\t$30.00\tsku=42"))

	if len(links) != 0 {
		t.Errorf("Expected substring match on '3l' to skip the row, got %d links", len(links))
	}
}

func TestFeedResolver_Run_CategoryRequired(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	links := resolver.Run(feedText(
		"Some Beer\tBeer\t$4.99\tsku=1",
		"Some Scotch\tSpirits - Scotch\t$49.99\tsku=2",
		"Some Rose\tWine - Rose\t$14.99\tsku=3",
		"Some Bubbly\tWine - Sparkling\t$34.99\tsku=4",
		"Some White\tWine - White\t$19.99\tsku=5",
	))

	if len(links) != 3 {
		t.Fatalf("Expected 3 wine links, got %d", len(links))
	}

	expected := []string{"sku=3", "sku=4", "sku=5"}
	for i, link := range links {
		if !strings.HasSuffix(link.Link, expected[i]) {
			t.Errorf("Expected link %d to end with '%s', got '%s'", i, expected[i], link.Link)
		}
	}
}

func TestFeedResolver_Run_TokenShape(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	links := resolver.Run(feedText(
		"SKU first\tWine - Red\tsku=1\t$10.00",
		"No SKU\tWine - Red\t$10.00",
		"Two prices\tWine - Red\t$10.00\t$12.00\tsku=2",
		"Good\tWine - Red\t$1,024.50\tsku=3",
	))

	if len(links) != 1 {
		t.Fatalf("Expected only the well-formed row, got %d links", len(links))
	}
	if *links[0].ActualPrice != 1024.50 {
		t.Errorf("Expected thousands separator to be stripped (1024.50), got %v", *links[0].ActualPrice)
	}
}

func TestFeedResolver_Run_HeaderSkippedAndDuplicatesKept(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	text := strings.Join([]string{
		"Header Wine - Red $1.00 sku=999",
		"A\tWine - Red\t$10.00\tsku=7",
		"A again\tWine - Red\t$10.00\tsku=7",
	}, "\r\n")

	links := resolver.Run(text)

	if len(links) != 2 {
		t.Fatalf("Expected 2 links (header skipped, duplicates kept), got %d", len(links))
	}
	if links[0].Link != links[1].Link {
		t.Errorf("Expected duplicate links to be preserved, got '%s' and '%s'", links[0].Link, links[1].Link)
	}
}

func TestFeedResolver_Run_Empty(t *testing.T) {
	resolver := NewFeedResolver(DefaultProfile())

	if links := resolver.Run(""); len(links) != 0 {
		t.Errorf("Expected no links for empty feed, got %d", len(links))
	}
}
