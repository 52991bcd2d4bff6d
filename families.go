package sped

// Block rule sets, one per SPED export family. Field positions follow the
// published record layouts; conditions reproduce how each family reports
// revenue:
//
//   - goods and transport documents count as revenue only when issued by the
//     filer itself (issuer indicator "0"), not when received from third parties;
//   - the contributions family adds service invoices and "other operations"
//     records, the latter gated on their revenue indicator;
//   - the ECD has no revenue records at all, so credit balances of
//     class-3 accounts (the revenue account class) serve as a proxy;
//   - the ECF income statement blocks are summed as reported.

// fiscalRules aggregates the EFD ICMS/IPI family.
var fiscalRules = []BlockRule{
	// C100: goods invoices (NF-e). IND_EMIT at 3, VL_DOC at 12.
	{Tag: "C100", ValueField: 12, CondField: 3, CondValues: []string{"0"}, dest: accRevenue},
	// D100: transport documents (CT-e). IND_EMIT at 3, VL_DOC at 15.
	{Tag: "D100", ValueField: 15, CondField: 3, CondValues: []string{"0"}, dest: accRevenue},
	// E110: ICMS apuração. VL_ICMS_RECOLHER (13) plus DEB_ESP (15).
	{Tag: "E110", ValueField: 13, ExtraField: 15, dest: accICMS},
	// E520: IPI apuração. The balance due is the last numeric field; E520
	// instances vary in field count, hence LastField.
	{Tag: "E520", ValueField: LastField, dest: accIPI},
}

// contributionsRules aggregates the EFD-Contribuições family.
var contributionsRules = []BlockRule{
	{Tag: "C100", ValueField: 12, CondField: 3, CondValues: []string{"0"}, dest: accRevenue},
	// A100: service invoices. Same issuer gate as C100, VL_DOC at 12.
	{Tag: "A100", ValueField: 12, CondField: 3, CondValues: []string{"0"}, dest: accRevenue},
	{Tag: "D100", ValueField: 15, CondField: 3, CondValues: []string{"0"}, dest: accRevenue},
	// F100: other operations. IND_OPER "1" and "2" are revenue; "0" is an
	// acquisition and must be dropped. VL_OPER at 6.
	{Tag: "F100", ValueField: 6, CondField: 2, CondValues: []string{"1", "2"}, dest: accRevenue},
	// M200/M600: PIS and COFINS apuração, total contribution due at 13.
	{Tag: "M200", ValueField: 13, dest: accPIS},
	{Tag: "M600", ValueField: 13, dest: accCOFINS},
}

// equityRules aggregates the ECD family. I155 carries periodic account
// balances; only class-3 (revenue) accounts with a positive closing balance
// count toward the revenue proxy.
var equityRules = []BlockRule{
	{Tag: "I155", ValueField: 8, PrefixField: 2, Prefix: "3", PositiveOnly: true, dest: accRevenue},
}

// incomeTaxRules aggregates the ECF family: income statement lines of the
// real-profit (L300) and presumed-profit (P400) regimes, summed as reported.
var incomeTaxRules = []BlockRule{
	{Tag: "L300", ValueField: 5, dest: accRevenue},
	{Tag: "P400", ValueField: 5, dest: accRevenue},
}

// rulesFor returns the block rule set of a family. An unknown family has no
// rules: its documents aggregate to zero rather than failing.
func rulesFor(f Family) []BlockRule {
	switch f {
	case FamilyFiscal:
		return fiscalRules
	case FamilyContributions:
		return contributionsRules
	case FamilyEquity:
		return equityRules
	case FamilyIncomeTax:
		return incomeTaxRules
	default:
		return nil
	}
}
