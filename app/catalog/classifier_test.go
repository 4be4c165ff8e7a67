package catalog

import (
	"testing"
)

func wineExtraction() Extraction {
	return Extraction{
		Record: ProductRecord{
			FullWineName: "2018 Test Cabernet",
			Varietals:    []string{"Cabernet Sauvignon"},
			Alcohol:      "14.5",
			BottleSize:   750,
			Vintage:      2018,
		},
		VarietalFound: true,
		VarietalName:  "Cabernet Sauvignon",
	}
}

func TestClassifier_Run_KeepsWine(t *testing.T) {
	classifier := NewClassifier()

	record, reason := classifier.Run(wineExtraction())

	if record == nil {
		t.Fatalf("Expected wine to be kept, discarded: %s", reason)
	}
	if record.FullWineName != "2018 Test Cabernet" {
		t.Errorf("Expected record to be returned unchanged, got '%s'", record.FullWineName)
	}
}

func TestClassifier_Run_SpiritVarietal(t *testing.T) {
	classifier := NewClassifier()

	for _, name := range []string{"Scotch", "RUM", "eau de vie", "Distilled Spirits", "Other", "whiskey"} {
		extraction := wineExtraction()
		extraction.VarietalName = name
		extraction.Record.Varietals = []string{name}
		extraction.Record.Alcohol = "12"

		record, reason := classifier.Run(extraction)
		if record != nil {
			t.Errorf("Expected '%s' to be discarded", name)
		}
		if reason != DiscardSpiritVarietal {
			t.Errorf("Expected reason '%s' for '%s', got '%s'", DiscardSpiritVarietal, name, reason)
		}
	}
}

func TestClassifier_Run_LexiconNeedsWholeName(t *testing.T) {
	classifier := NewClassifier()

	extraction := wineExtraction()
	extraction.VarietalName = "Rumelia Red"

	if record, reason := classifier.Run(extraction); record == nil {
		t.Errorf("Expected varietal merely containing a lexicon term to be kept, discarded: %s", reason)
	}
}

func TestClassifier_Run_HighAlcoholWithVarietal(t *testing.T) {
	classifier := NewClassifier()

	// Fortified wine: strong, but labelled with a varietal.
	extraction := wineExtraction()
	extraction.VarietalName = "Touriga Nacional"
	extraction.Record.Alcohol = "20"

	if record, reason := classifier.Run(extraction); record == nil {
		t.Errorf("Expected labelled fortified wine to be kept, discarded: %s", reason)
	}
}

func TestClassifier_Run_VarietalRowWithoutName(t *testing.T) {
	classifier := NewClassifier()

	// "Other White" rows clear the name but still count as a varietal signal.
	extraction := wineExtraction()
	extraction.VarietalName = ""
	extraction.Record.Varietals = []string{}
	extraction.Record.Alcohol = "40"

	if record, reason := classifier.Run(extraction); record == nil {
		t.Errorf("Expected record with a varietal row to be kept, discarded: %s", reason)
	}
}

func TestClassifier_Run_UnreadableAlcohol(t *testing.T) {
	classifier := NewClassifier()

	extraction := wineExtraction()
	extraction.VarietalFound = false
	extraction.VarietalName = ""
	extraction.Record.Alcohol = "n/a"

	if record, reason := classifier.Run(extraction); record == nil {
		t.Errorf("Expected unreadable alcohol not to trigger the spirit rule, discarded: %s", reason)
	}
}

func TestClassifier_Run_BottleSize(t *testing.T) {
	classifier := NewClassifier()

	for _, size := range []int{187, 375, 1500, 3000} {
		extraction := wineExtraction()
		extraction.Record.BottleSize = size

		record, reason := classifier.Run(extraction)
		if record != nil {
			t.Errorf("Expected %d ml bottle to be discarded", size)
		}
		if reason != DiscardBottleSize {
			t.Errorf("Expected reason '%s', got '%s'", DiscardBottleSize, reason)
		}
	}
}
