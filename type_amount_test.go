package sped

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		tok     string
		want    Amount
		wantErr bool
	}{
		{tok: "1500,50", want: BRL(1500.50)},
		{tok: "1.500,50", want: BRL(1500.50)},
		{tok: "0,00", want: BRL(0)},
		{tok: "-100,00", want: BRL(-100)},
		{tok: "42", want: BRL(42)},
		{tok: " 7,5 ", want: BRL(7.5)},
		{tok: "", wantErr: true},
		{tok: "abc", wantErr: true},
		{tok: "1,2,3", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := ParseAmount(tc.tok)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) = %v, want error", tc.tok, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", tc.tok, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseAmount(%q) = %v, want %v", tc.tok, got, tc.want)
		}
	}
}

func TestAmountString(t *testing.T) {
	if got := BRL(1500.50).String(); got != "R$1.500,50" {
		t.Errorf("String() = %q, want %q", got, "R$1.500,50")
	}
}

func TestSummaryShapes(t *testing.T) {
	testCases := []struct {
		name     string
		analysis Analysis
		wantJSON string
	}{
		{
			name: "fiscal ledger",
			analysis: Analysis{
				Header: Header{Family: FamilyFiscal},
				Totals: Aggregate{Family: FamilyFiscal, Revenue: BRL(1500.50), ICMS: BRL(40.75), IPI: BRL(99.99)},
			},
			wantJSON: `{"faturamento":1500.5,"icms":40.75,"ipi":99.99}`,
		},
		{
			name: "contributions ledger",
			analysis: Analysis{
				Header: Header{Family: FamilyContributions},
				Totals: Aggregate{Family: FamilyContributions, Revenue: BRL(2000), PIS: BRL(15), COFINS: BRL(69.10)},
			},
			wantJSON: `{"totalRevenue":2000,"pisCofins":{"pis":15,"cofins":69.1}}`,
		},
		{
			name: "equity ledger",
			analysis: Analysis{
				Header: Header{Family: FamilyEquity},
				Totals: Aggregate{Family: FamilyEquity, Revenue: BRL(5000)},
			},
			wantJSON: `{"faturamento":5000}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.analysis.Summary())
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(b) != tc.wantJSON {
				t.Errorf("summary JSON = %s, want %s", b, tc.wantJSON)
			}
		})
	}
}

func TestFamilyDocumentType(t *testing.T) {
	testCases := []struct {
		family Family
		want   DocumentType
	}{
		{FamilyFiscal, FiscalLedger},
		{FamilyContributions, ContributionsLedger},
		{FamilyEquity, EquityLedger},
		{FamilyIncomeTax, IncomeTaxLedger},
		{FamilyUnknown, FiscalLedger},
	}
	for _, tc := range testCases {
		if got := tc.family.DocumentType(); got != tc.want {
			t.Errorf("%v.DocumentType() = %v, want %v", tc.family, got, tc.want)
		}
	}
}
