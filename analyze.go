package sped

// Analysis is the full outcome of decoding one ledger document: the detected
// header plus the aggregated totals. Immutable once returned.
type Analysis struct {
	Header Header
	Totals Aggregate
}

// Analyze decodes one ledger document end to end: header detection, then a
// single aggregation sweep with the detected family's rules. A header failure
// aborts this document only; it is the caller's job to keep sibling documents
// of a batch alive.
func Analyze(doc string) (*Analysis, error) {
	h, err := ParseHeader(doc)
	if err != nil {
		return nil, err
	}
	return &Analysis{Header: h, Totals: AggregateDocument(doc, h.Family)}, nil
}
