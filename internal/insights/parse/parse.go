// Package parse converts raw textual values from the upstream analytics
// provider into canonical primitives. Failures never raise: callers receive a
// not-ok result and must drop the affected point.
package parse

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ISODate is the canonical output layout for parsed dates.
const ISODate = "2006-01-02"

var currencyReplacer = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	"¥", "",
	",", "",
	" ", "",
	" ", "",
)

// Number parses a currency- or locale-formatted numeric string. Currency
// symbols, thousands separators, and surrounding whitespace are stripped
// before parsing. Unparsable input yields ok=false, never an error.
func Number(raw string) (float64, bool) {
	cleaned := currencyReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	value, _ := d.Float64()
	return value, true
}

// fallbackLayouts are tried after the two upstream conventions. They cover
// the odd date shapes observed in provider exports.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Date parses a raw date string into ISO YYYY-MM-DD form. Three input shapes
// are accepted: slash-separated MM/DD/YYYY (month-first per the upstream API
// convention), hyphen-separated ISO with an optional time suffix (discarded),
// and a set of generic fallback layouts. Invalid input yields ok=false.
func Date(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if strings.Contains(trimmed, "/") {
		for _, layout := range []string{"01/02/2006", "1/2/2006"} {
			if t, err := time.Parse(layout, trimmed); err == nil {
				return t.Format(ISODate), true
			}
		}
	}

	if len(trimmed) >= len(ISODate) && trimmed[4] == '-' {
		if t, err := time.Parse(ISODate, trimmed[:len(ISODate)]); err == nil {
			return t.Format(ISODate), true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(ISODate), true
		}
	}
	return "", false
}
