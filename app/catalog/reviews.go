package catalog

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Reviewer names containing the key are shortened to the canonical name.
var reviewerAliases = []struct {
	key       string
	canonical string
}{
	{"Wine Advocate", "Wine Advocate"},
	{"Tanzer", "Stephen Tanzer"},
}

// ReviewParser reads the review list of a detail page. Critic reviews and the
// retailer's own notes share the list markup but not its layout.
type ReviewParser struct {
	profile *Profile
}

func NewReviewParser(profile *Profile) *ReviewParser {
	return &ReviewParser{profile: profile}
}

// Run pairs each score/reviewer marker with the description paragraph at the
// same index. Reviews parsed before a malformed entry are returned together
// with the error.
func (p *ReviewParser) Run(doc *goquery.Document) ([]Review, error) {
	desc := doc.Find("div.result-desc")
	markers := desc.Find("span.H2ReviewNotes")
	texts := desc.Find("p")

	reviews := make([]Review, 0, markers.Length())
	for i, markerNode := range markers.Nodes {
		marker, err := childText(markerNode, 0)
		if err != nil {
			return reviews, fmt.Errorf("review %d: malformed marker: %w", i, err)
		}
		if i >= len(texts.Nodes) {
			return reviews, fmt.Errorf("review %d: no description for %q", i, marker)
		}

		if strings.Contains(marker, p.profile.HouseMarker) {
			text, err := childText(texts.Nodes[i], 0)
			if err != nil {
				return reviews, fmt.Errorf("review %d: malformed house notes: %w", i, err)
			}
			reviews = append(reviews, p.houseReview(text))
			continue
		}

		text, err := childText(texts.Nodes[i], 2)
		if err != nil {
			return reviews, fmt.Errorf("review %d: malformed critic review: %w", i, err)
		}
		reviews = append(reviews, criticReview(marker, text))
	}

	// Pages without critic entries sometimes carry a plain write-up instead.
	if len(reviews) == 0 {
		if writeUp := cleanText(texts.Text()); writeUp != "" {
			reviews = append(reviews, p.houseReview(writeUp))
		}
	}

	return reviews, nil
}

func (p *ReviewParser) houseReview(text string) Review {
	return Review{
		ReviewerName: p.profile.HouseReviewer(),
		Score:        nil,
		ScoreStr:     "",
		ReviewText:   text,
	}
}

// criticReview parses markers such as "94 points Wine Spectator" or
// "90-93 points Wine Advocate".
func criticReview(marker, text string) Review {
	scoreStr := strings.TrimSpace(firstN(marker, 6))

	var score *int
	scoreSource := marker
	if lower, _, isRange := strings.Cut(scoreStr, "-"); isRange {
		// Barrel ranges keep their lower bound.
		scoreSource = lower
	}
	if value, ok := leadingInt(scoreSource); ok {
		score = &value
	}

	reviewer := strings.TrimSpace(strings.TrimPrefix(marker, scoreStr))
	if pos := strings.Index(marker, "points"); pos > -1 {
		reviewer = strings.TrimSpace(marker[pos+len("points"):])
	}
	for _, alias := range reviewerAliases {
		if strings.Contains(reviewer, alias.key) {
			reviewer = alias.canonical
			break
		}
	}

	return Review{
		ReviewerName: reviewer,
		Score:        score,
		ScoreStr:     scoreStr,
		ReviewText:   text,
	}
}

// childText returns the index-th child of n, which must be a text node.
func childText(n *html.Node, index int) (string, error) {
	i := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if i == index {
			if child.Type != html.TextNode {
				return "", fmt.Errorf("child %d of <%s> is not text", index, n.Data)
			}
			return cleanText(child.Data), nil
		}
		i++
	}
	return "", fmt.Errorf("<%s> has no child %d", n.Data, index)
}
