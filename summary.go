package sped

import "fmt"

// DocumentType is the persistence collaborator's classification of an
// analysis. At most one analysis may exist per (client, period, type).
type DocumentType string

const (
	FiscalLedger        DocumentType = "FISCAL_LEDGER"
	ContributionsLedger DocumentType = "CONTRIBUTIONS_LEDGER"
	EquityLedger        DocumentType = "EQUITY_LEDGER"
	IncomeTaxLedger     DocumentType = "INCOME_TAX_LEDGER"
	Report              DocumentType = "REPORT"
)

// DocumentType maps a ledger family to its persisted document type.
func (f Family) DocumentType() DocumentType {
	switch f {
	case FamilyContributions:
		return ContributionsLedger
	case FamilyEquity:
		return EquityLedger
	case FamilyIncomeTax:
		return IncomeTaxLedger
	default:
		// Unknown-layout documents aggregate with fiscal semantics.
		return FiscalLedger
	}
}

// The summary payloads below are the canonical shapes stored per document
// type. Field names are part of the persistence contract and must not drift.

// FiscalSummary is the stored shape of a fiscal-ledger analysis.
type FiscalSummary struct {
	Faturamento Amount `json:"faturamento"`
	ICMS        Amount `json:"icms"`
	IPI         Amount `json:"ipi"`
}

// PisCofins groups the two contribution totals.
type PisCofins struct {
	PIS    Amount `json:"pis"`
	COFINS Amount `json:"cofins"`
}

// ContributionsSummary is the stored shape of a contributions-ledger analysis.
type ContributionsSummary struct {
	TotalRevenue Amount    `json:"totalRevenue"`
	PisCofins    PisCofins `json:"pisCofins"`
}

// RevenueSummary is the stored shape of the bookkeeping families (ECD, ECF),
// which only yield a revenue figure.
type RevenueSummary struct {
	Faturamento Amount `json:"faturamento"`
}

// Tributos groups the four federal tax totals of a DCTF-style report.
type Tributos struct {
	IRPJ   Amount `json:"irpj"`
	CSLL   Amount `json:"csll"`
	PIS    Amount `json:"pis"`
	COFINS Amount `json:"cofins"`
}

// ReportSummary is the stored shape of a tax-report analysis.
type ReportSummary struct {
	Tributos Tributos `json:"tributos"`
}

// Summary assembles the aggregate into the canonical payload for its family.
func (a *Analysis) Summary() any {
	t := a.Totals
	switch a.Header.Family {
	case FamilyContributions:
		return ContributionsSummary{
			TotalRevenue: t.Revenue,
			PisCofins:    PisCofins{PIS: t.PIS, COFINS: t.COFINS},
		}
	case FamilyEquity, FamilyIncomeTax:
		return RevenueSummary{Faturamento: t.Revenue}
	default:
		return FiscalSummary{Faturamento: t.Revenue, ICMS: t.ICMS, IPI: t.IPI}
	}
}

func (s FiscalSummary) String() string {
	return fmt.Sprintf("faturamento %s, ICMS %s, IPI %s", s.Faturamento, s.ICMS, s.IPI)
}

func (s ContributionsSummary) String() string {
	return fmt.Sprintf("faturamento %s, PIS %s, COFINS %s", s.TotalRevenue, s.PisCofins.PIS, s.PisCofins.COFINS)
}

func (s RevenueSummary) String() string {
	return fmt.Sprintf("faturamento %s", s.Faturamento)
}

func (s ReportSummary) String() string {
	t := s.Tributos
	return fmt.Sprintf("IRPJ %s, CSLL %s, PIS %s, COFINS %s", t.IRPJ, t.CSLL, t.PIS, t.COFINS)
}
