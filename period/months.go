package period

import (
	"strings"
	"time"
)

// months maps the Portuguese three-letter month abbreviations printed by
// Receita Federal reports to calendar months.
var months = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

// MonthFromAbbr resolves a Portuguese three-letter month abbreviation
// (case-insensitive) into a calendar month.
func MonthFromAbbr(abbr string) (time.Month, bool) {
	m, ok := months[strings.ToLower(abbr)]
	return m, ok
}
