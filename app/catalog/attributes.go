package catalog

import (
	"strings"
)

// attributes accumulates the labelled rows of the additional-info table.
type attributes struct {
	varietalFound bool
	varietal      string
	colorHint     ColorHint
	country       string
	subRegion     string
	appellation   string
	alcohol       string
}

type attributeRow struct {
	// plainCell rows keep their value directly in the cell instead of a nested <h3>.
	plainCell bool
	apply     func(attrs attributes, value string) attributes
}

var attributeRows = map[string]attributeRow{
	"Varietal:": {apply: applyVarietal},
	"Country:": {apply: func(attrs attributes, value string) attributes {
		attrs.country = value
		return attrs
	}},
	"Sub-Region:": {apply: func(attrs attributes, value string) attributes {
		attrs.subRegion = value
		return attrs
	}},
	"Specific Appellation:": {apply: func(attrs attributes, value string) attributes {
		attrs.appellation = value
		return attrs
	}},
	"Alcohol Content (%):": {plainCell: true, apply: func(attrs attributes, value string) attributes {
		attrs.alcohol = value
		return attrs
	}},
}

func applyVarietal(attrs attributes, value string) attributes {
	attrs.varietalFound = true
	attrs.colorHint = nil

	if pos := strings.Index(value, " and "); pos > -1 {
		value = value[:pos]
	}

	switch {
	case strings.Contains(value, "Other White"):
		value = ""
		attrs.colorHint = ColorHint{"white", "sparkling"}
	case strings.Contains(value, "Other Red"):
		value = ""
		attrs.colorHint = ColorHint{"red"}
	}

	attrs.varietal = value
	return attrs
}

func (a attributes) region() string {
	if a.appellation != "" {
		return a.appellation
	}
	return a.subRegion
}

func (a attributes) varietals() []string {
	if a.varietal == "" {
		return []string{}
	}
	return []string{a.varietal}
}

func (a attributes) applyTo(record *ProductRecord) {
	record.Country = a.country
	record.Region = a.region()
	record.Alcohol = a.alcohol
	if a.varietalFound {
		record.Varietals = a.varietals()
		record.RedWhiteType = a.colorHint
	}
}
