package sped

import "strings"

// Delimiter is the field separator of every SPED ledger line. Lines open and
// close with it, so the first and last token of a well-formed record are empty.
const Delimiter = '|'

// Record is one ledger line split into its ordered field tokens. It is
// ephemeral: produced and consumed per line, never retained.
type Record struct {
	fields []string
}

// Tokenize splits a raw ledger line into field tokens. It never fails: a
// short or malformed line simply yields fewer tokens, and callers must check
// bounds (via Field or Amount) before reading a position.
func Tokenize(line string, delim rune) Record {
	return Record{fields: strings.Split(line, string(delim))}
}

// Len returns the number of tokens in the record.
func (r Record) Len() int { return len(r.fields) }

// Tag returns the record's block tag (the token after the leading delimiter),
// or "" when the line is too short to carry one.
func (r Record) Tag() string {
	if len(r.fields) < 2 {
		return ""
	}
	return r.fields[1]
}

// Field returns the token at position i, and whether that position exists.
func (r Record) Field(i int) (string, bool) {
	if i < 0 || i >= len(r.fields) {
		return "", false
	}
	return r.fields[i], true
}

// Amount parses the token at position i as a comma-decimal monetary value.
// A missing, empty or non-numeric token yields a zero amount with
// defaulted=true; it is the caller's decision to count or ignore the default.
func (r Record) Amount(i int) (a Amount, defaulted bool) {
	tok, ok := r.Field(i)
	if !ok || strings.TrimSpace(tok) == "" {
		return Amount{}, true
	}
	a, err := ParseAmount(tok)
	if err != nil {
		return Amount{}, true
	}
	return a, false
}
