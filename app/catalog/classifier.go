package catalog

import (
	"strconv"
	"strings"
)

// Unlabelled items stronger than this are treated as spirits.
const spiritAlcoholThreshold = 19

var spiritLexicon = []string{
	"vodka", "cordial", "eau de vie", "malt", "other", "distilled spirits",
	"brandy", "cognac", "gin", "irish", "rum", "rye", "scotch", "whiskey",
}

const (
	DiscardUnlabelledSpirit = "no varietal and alcohol above threshold"
	DiscardSpiritVarietal   = "varietal is a spirit"
	DiscardBottleSize       = "bottle size is not 750 ml"
)

// Classifier decides whether an extracted record is a qualifying 750 ml wine.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run returns the record to keep, or nil and the discard reason.
func (c *Classifier) Run(extraction Extraction) (*ProductRecord, string) {
	record := extraction.Record

	// Both spirit rules are evaluated on their own.
	if !extraction.VarietalFound && alcoholAbove(record.Alcohol, spiritAlcoholThreshold) {
		return nil, DiscardUnlabelledSpirit
	}
	if extraction.VarietalName != "" && isSpiritName(extraction.VarietalName) {
		return nil, DiscardSpiritVarietal
	}

	if record.BottleSize != DefaultBottleSize {
		return nil, DiscardBottleSize
	}

	return &record, ""
}

func alcoholAbove(alcohol string, threshold float64) bool {
	value, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(alcohol), "%"), 64)
	if err != nil {
		return false
	}
	return value > threshold
}

func isSpiritName(name string) bool {
	name = strings.TrimSpace(name)
	for _, spirit := range spiritLexicon {
		if foldEqual(name, spirit) {
			return true
		}
	}
	return false
}
