package catalog

import (
	"encoding/json"
	"fmt"
)

const (
	PriceErrorSentinel = "ERROR READING PRICE"

	// Feed rows carry no inventory; the real quantity comes from the detail page.
	PlaceholderQOH = 12

	DefaultBottleSize = 750
)

// ProductLink is a stub discovered from a feed, listing page or arrivals feed.
type ProductLink struct {
	Link         string   `json:"link"`
	FullWineName string   `json:"full_wine_name,omitempty"`
	ActualPrice  *float64 `json:"actual_price,omitempty"`
	QOH          *int     `json:"qoh,omitempty"`
}

// Record converts an unenriched stub into a record carrying only the stub fields.
func (l ProductLink) Record() ProductRecord {
	record := ProductRecord{
		Link:         l.Link,
		FullWineName: l.FullWineName,
		Varietals:    []string{},
		Reviews:      []Review{},
	}
	if l.ActualPrice != nil {
		record.ActualPrice = PriceOf(*l.ActualPrice)
	}
	if l.QOH != nil {
		record.QOH = *l.QOH
	}
	return record
}

type Review struct {
	ReviewerName string `json:"reviewer_name"`
	Score        *int   `json:"score"`
	ScoreStr     string `json:"score_str"`
	ReviewText   string `json:"review_text"`
}

type ProductRecord struct {
	Link         string    `json:"link"`
	FullWineName string    `json:"full_wine_name"`
	Image        string    `json:"image,omitempty"`
	ActualPrice  Price     `json:"actual_price"`
	QOH          int       `json:"qoh"`
	Varietals    []string  `json:"varietals"`
	RedWhiteType ColorHint `json:"red_white_type,omitempty"`
	Country      string    `json:"country,omitempty"`
	Region       string    `json:"region,omitempty"`
	Alcohol      string    `json:"alcohol,omitempty"`
	BottleSize   int       `json:"bottle_size,omitempty"`
	Reviews      []Review  `json:"reviews"`
	Vintage      int       `json:"vintage,omitempty"`
	NonVintage   bool      `json:"non_vintage,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Price is either a dollar amount or unreadable (hidden behind a login wall,
// missing markup); the unreadable form serializes as PriceErrorSentinel.
type Price struct {
	Value float64
	Valid bool
}

func PriceOf(value float64) Price {
	return Price{Value: value, Valid: true}
}

func (p Price) String() string {
	if !p.Valid {
		return PriceErrorSentinel
	}
	return fmt.Sprintf("%.2f", p.Value)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return json.Marshal(PriceErrorSentinel)
	}
	return json.Marshal(p.Value)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*p = PriceOf(value)
		return nil
	}

	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err != nil {
		return fmt.Errorf("failed to decode price %s: %w", string(data), err)
	}
	*p = Price{}
	return nil
}

// ColorHint is the red/white hint derived from generic varietal labels.
// A single value serializes as a plain string, several as an array.
type ColorHint []string

func (c ColorHint) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

func (c *ColorHint) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = ColorHint{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("failed to decode red_white_type %s: %w", string(data), err)
	}
	*c = ColorHint(many)
	return nil
}

// Extraction is the detail extractor's output: the record plus the signals
// the classifier needs that are not part of the persisted schema.
type Extraction struct {
	Record        ProductRecord
	VarietalFound bool
	VarietalName  string
}
