package sped

import (
	"errors"
	"fmt"
	"strings"

	"github.com/contabhub/sped/period"
)

// HeaderTag is the block tag of the mandatory opening record of every family.
const HeaderTag = "0000"

// Document-level parse failures. They abort the analysis of one document but
// must never abort an enclosing batch.
var (
	ErrNoHeader = errors.New("no header record found")
	ErrNoPeriod = errors.New("unparseable reporting period")
	ErrNoFiler  = errors.New("unparseable filer identity")
)

// Header is the outcome of layout detection on one ledger document.
type Header struct {
	Family Family
	// Layout is the version code ("010", "011", "006") or marker literal
	// ("LECD", "LECF") read from the opening record, kept for diagnostics.
	Layout string
	Period period.Period
	Filer  Identity
}

// ParseHeader locates the opening record of a ledger document, determines its
// family and layout version, and extracts the reporting period and filer
// identity. It is pure: the same text always yields the same header.
//
// When the layout discriminator is unrecognized the schema registry cannot
// help, and the header fields are scanned heuristically instead: any 8-digit
// token that reads as a ddmmyyyy date recovers the period, any 14-digit token
// recovers the tax id, paired with the adjacent longer text token as the
// legal name.
func ParseHeader(doc string) (Header, error) {
	rec, ok := findHeader(doc)
	if !ok {
		return Header{}, ErrNoHeader
	}

	discriminator, _ := rec.Field(2)
	schema, known := schemaFor(discriminator)
	if !known {
		h, err := scanHeader(rec)
		if err != nil {
			return Header{}, err
		}
		h.Layout = discriminator
		h.Family = sniffFamily(doc)
		return h, nil
	}

	h := Header{Family: schema.family, Layout: discriminator}

	tok, _ := rec.Field(schema.periodStart)
	p, err := period.FromSPEDDate(tok)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrNoPeriod, err)
	}
	h.Period = p

	taxID, _ := rec.Field(schema.taxID)
	name, _ := rec.Field(schema.legalName)
	filer, err := NewIdentity(taxID, name)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrNoFiler, err)
	}
	h.Filer = filer
	return h, nil
}

// findHeader returns the first record carrying the opening block tag.
func findHeader(doc string) (Record, bool) {
	for line := range strings.Lines(doc) {
		rec := Tokenize(strings.TrimRight(line, "\r\n"), Delimiter)
		if rec.Tag() == HeaderTag {
			return rec, true
		}
	}
	return Record{}, false
}

// scanHeader is the heuristic fallback for unrecognized layout versions.
func scanHeader(rec Record) (Header, error) {
	var h Header
	taxIDIndex := -1
	for i := 2; i < rec.Len(); i++ {
		tok, _ := rec.Field(i)
		if !allDigits(tok) {
			continue
		}
		switch len(tok) {
		case 8:
			if h.Period.IsZero() {
				if p, err := period.FromSPEDDate(tok); err == nil {
					h.Period = p
				}
			}
		case 14:
			if taxIDIndex < 0 {
				h.Filer.TaxID = tok
				taxIDIndex = i
			}
		}
	}
	if h.Period.IsZero() {
		return Header{}, ErrNoPeriod
	}
	if taxIDIndex < 0 {
		return Header{}, ErrNoFiler
	}
	h.Filer.LegalName = adjacentName(rec, taxIDIndex)
	return h, nil
}

// adjacentName picks the longer text token next to the tax id as the filer's
// legal name. Every recognized layout keeps name and tax id side by side.
func adjacentName(rec Record, taxIDIndex int) string {
	before, _ := rec.Field(taxIDIndex - 1)
	after, _ := rec.Field(taxIDIndex + 1)
	if allDigits(before) {
		before = ""
	}
	if allDigits(after) {
		after = ""
	}
	if len(after) > len(before) {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(before)
}

// sniffFamily guesses the family of a document whose layout version is
// unrecognized, from the block tags present in its body.
func sniffFamily(doc string) Family {
	for line := range strings.Lines(doc) {
		switch Tokenize(strings.TrimRight(line, "\r\n"), Delimiter).Tag() {
		case "M200", "M600":
			return FamilyContributions
		case "E110", "E520":
			return FamilyFiscal
		case "I155":
			return FamilyEquity
		case "L300", "P400":
			return FamilyIncomeTax
		}
	}
	return FamilyUnknown
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
