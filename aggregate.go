package sped

import (
	"slices"
	"strings"
)

// accumulator designates the aggregate total a block rule feeds.
type accumulator int

const (
	accRevenue accumulator = iota
	accICMS
	accIPI
	accPIS
	accCOFINS
)

// LastField selects the last numeric field of a record, computed per line as
// tokenCount-2. Some blocks (IPI totalization) vary their field count per
// record instance, so the value position cannot be a fixed index.
const LastField = -1

// BlockRule describes how records of one block tag contribute to a document
// aggregate: which field carries the value, an optional second field summed
// with it, and optional gates that must hold for the record to count.
type BlockRule struct {
	Tag        string
	ValueField int
	ExtraField int // second value field added to the first (0 = none)

	CondField  int // equality gate: token at CondField must be in CondValues (0 = none)
	CondValues []string

	PrefixField int // account-code gate: token must start with Prefix (0 = none)
	Prefix      string

	PositiveOnly bool // drop non-positive values instead of accumulating them

	dest accumulator
}

// Aggregate holds the per-document totals built by one aggregation sweep.
// Which totals are meaningful depends on the family; the others stay zero.
// An Aggregate is immutable once returned.
type Aggregate struct {
	Family  Family
	Revenue Amount
	ICMS    Amount
	IPI     Amount
	PIS     Amount
	COFINS  Amount

	// DefaultedFields counts value tokens that were missing or malformed and
	// therefore contributed zero. The tolerant decode never fails on them,
	// but a high count flags a suspiciously dirty document.
	DefaultedFields int
}

// AggregateDocument folds every line of a ledger document into the family's
// aggregate. It is a single deterministic pass: tokenize, classify by block
// tag, apply the matching rules. Lines with no matching rule are ignored.
func AggregateDocument(doc string, family Family) Aggregate {
	rules := rulesFor(family)
	agg := Aggregate{Family: family}
	for line := range strings.Lines(doc) {
		rec := Tokenize(strings.TrimRight(line, "\r\n"), Delimiter)
		tag := rec.Tag()
		for _, rule := range rules {
			if rule.Tag == tag {
				agg = rule.apply(rec, agg)
			}
		}
	}
	return agg
}

// apply folds one record into the aggregate, returning the new value.
func (r BlockRule) apply(rec Record, agg Aggregate) Aggregate {
	if r.CondField > 0 {
		tok, _ := rec.Field(r.CondField)
		// string equality: "0" and "00" are different indicators.
		if !slices.Contains(r.CondValues, tok) {
			return agg
		}
	}
	if r.PrefixField > 0 {
		tok, _ := rec.Field(r.PrefixField)
		if !strings.HasPrefix(tok, r.Prefix) {
			return agg
		}
	}

	idx := r.ValueField
	if idx == LastField {
		idx = rec.Len() - 2
	}
	val, defaulted := rec.Amount(idx)
	if defaulted {
		agg.DefaultedFields++
	}
	if r.ExtraField > 0 {
		extra, d := rec.Amount(r.ExtraField)
		if d {
			agg.DefaultedFields++
		}
		val = val.Add(extra)
	}
	if r.PositiveOnly && !val.IsPositive() {
		return agg
	}

	switch r.dest {
	case accRevenue:
		agg.Revenue = agg.Revenue.Add(val)
	case accICMS:
		agg.ICMS = agg.ICMS.Add(val)
	case accIPI:
		agg.IPI = agg.IPI.Add(val)
	case accPIS:
		agg.PIS = agg.PIS.Add(val)
	case accCOFINS:
		agg.COFINS = agg.COFINS.Add(val)
	}
	return agg
}
