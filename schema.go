package sped

import "fmt"

// Family identifies which SPED export family a ledger document belongs to.
type Family int

const (
	FamilyUnknown Family = iota
	// FamilyFiscal is the EFD ICMS/IPI export.
	FamilyFiscal
	// FamilyContributions is the EFD-Contribuições (PIS/COFINS) export.
	FamilyContributions
	// FamilyEquity is the ECD equity bookkeeping export.
	FamilyEquity
	// FamilyIncomeTax is the ECF income-tax bookkeeping export.
	FamilyIncomeTax
)

func (f Family) String() string {
	switch f {
	case FamilyFiscal:
		return "fiscal"
	case FamilyContributions:
		return "contributions"
	case FamilyEquity:
		return "equity"
	case FamilyIncomeTax:
		return "income-tax"
	default:
		return "unknown"
	}
}

// ParseFamily parses a string into a Family.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "fiscal":
		return FamilyFiscal, nil
	case "contributions":
		return FamilyContributions, nil
	case "equity":
		return FamilyEquity, nil
	case "income-tax":
		return FamilyIncomeTax, nil
	default:
		return FamilyUnknown, fmt.Errorf("unknown ledger family: %q", s)
	}
}

// headerSchema holds the positions of the meaningful fields of a family's
// opening record, for one layout version. Pure data; positions are token
// indexes in the tokenized "0000" line (index 1 is the block tag itself).
type headerSchema struct {
	family      Family
	periodStart int // DT_INI, in ddmmyyyy form
	legalName   int
	taxID       int
}

// Marker literals found in the second field of the opening record of the
// bookkeeping families, which carry no layout-version code there.
const (
	markerEquity    = "LECD"
	markerIncomeTax = "LECF"
)

// headerSchemas maps the second field of the opening record (a layout-version
// code for Fiscal/Contributions, a marker literal for ECD/ECF) to the field
// positions of that layout. The two recognized fiscal layouts share positions.
var headerSchemas = map[string]headerSchema{
	// EFD ICMS/IPI: |0000|COD_VER|COD_FIN|DT_INI|DT_FIN|NOME|CNPJ|...
	"010": {family: FamilyFiscal, periodStart: 4, legalName: 6, taxID: 7},
	"011": {family: FamilyFiscal, periodStart: 4, legalName: 6, taxID: 7},
	// EFD-Contribuições: |0000|COD_VER|TIPO_ESCRIT|IND_SIT_ESP|NUM_REC_ANTERIOR|DT_INI|DT_FIN|NOME|CNPJ|...
	"006": {family: FamilyContributions, periodStart: 6, legalName: 8, taxID: 9},
	// ECD: |0000|LECD|DT_INI|DT_FIN|NOME|CNPJ|...
	markerEquity: {family: FamilyEquity, periodStart: 3, legalName: 5, taxID: 6},
	// ECF: |0000|LECF|COD_VER|CNPJ|NOME|...|DT_INI|DT_FIN|...
	markerIncomeTax: {family: FamilyIncomeTax, periodStart: 8, legalName: 5, taxID: 4},
}

// schemaFor resolves the opening record's discriminator field into the header
// field positions of that family and layout. The only failure mode is an
// unknown discriminator, which callers must handle by heuristic fallback,
// never by failing the document outright.
func schemaFor(discriminator string) (headerSchema, bool) {
	s, ok := headerSchemas[discriminator]
	return s, ok
}
