// Package dctf extracts monthly federal tax figures out of the linearized
// text of DCTF reports issued by Receita Federal. The reports are consumed as
// PDF text in reading order; fields are located by labeled patterns where the
// report labels them, and by a declarative column template over the monthly
// totalization section where it does not.
package dctf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/contabhub/sped"
	"github.com/contabhub/sped/period"
)

// Extraction failures. They fail one report, never an enclosing batch.
var (
	ErrNotReport = errors.New("not a recognized DCTF report")
	ErrNoFiler   = errors.New("report carries no readable tax id")
	ErrNoPeriod  = errors.New("report carries no readable reporting period")
	// ErrTotalizationLayout reports a totalization section whose token count
	// deviates from the known column layout. Failing loudly here is deliberate:
	// reading taxes from shifted positions would silently corrupt figures.
	ErrTotalizationLayout = errors.New("unexpected totalization section layout")
)

// Figures is everything extracted from one report.
type Figures struct {
	Filer  sped.Identity
	Period period.Period
	Taxes  sped.Tributos
}

// Summary assembles the report figures into the canonical stored payload.
func (f *Figures) Summary() sped.ReportSummary {
	return sped.ReportSummary{Tributos: f.Taxes}
}

var (
	reName      = regexp.MustCompile(`Declara[çc][ãa]o de D[ée]bitos e Cr[ée]ditos Tribut[áa]rios Federais`)
	reAuthority = regexp.MustCompile(`(?i)Receita Federal`)
	reCNPJ      = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	rePeriodLbl = regexp.MustCompile(`(?i)Per[íi]odo de Apura[çc][ãa]o`)

	reLegalName = regexp.MustCompile(`(?i)Nome Empresarial[:\s]+([^\n]+)`)
	rePeriod    = regexp.MustCompile(`(?i)\b(jan|fev|mar|abr|mai|jun|jul|ago|set|out|nov|dez)[a-zçA-ZÇ]*[./\s]*(?:de\s+)?(\d{4})`)
	reDecimal   = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}`)
)

// The monthly totalization section prints one three-column block per tax, in
// fixed row order, without labels that survive text linearization. taxColumns
// is the declarative template for that layout: each tax's "amount due" token
// offset into the flat run of decimal tokens. minTotalizationTokens is the
// smallest token count the known layout can produce; anything below it means
// the layout changed and positional reads would be wrong.
type taxColumn struct {
	name   string
	offset int
}

var taxColumns = []taxColumn{
	{name: "IRPJ", offset: 1},
	{name: "CSLL", offset: 10},
	{name: "PIS", offset: 13},
	{name: "COFINS", offset: 15},
}

const minTotalizationTokens = 16

// Section titles bounding the monthly totalization region.
const (
	totalizationStart = "Totaliza"
	totalizationEnd   = "Rela"
)

// Extract validates that text is a DCTF report and pulls the filer, period and
// the four federal tax totals out of it.
func Extract(text string) (*Figures, error) {
	if !looksLikeReport(text) {
		return nil, ErrNotReport
	}

	f := &Figures{}

	cnpj := reCNPJ.FindString(text)
	if cnpj == "" {
		return nil, ErrNoFiler
	}
	f.Filer.TaxID = sped.DigitsOf(cnpj)
	if m := reLegalName.FindStringSubmatch(text); m != nil {
		f.Filer.LegalName = strings.TrimSpace(m[1])
	}

	p, err := extractPeriod(text)
	if err != nil {
		return nil, err
	}
	f.Period = p

	taxes, err := extractTaxes(text)
	if err != nil {
		return nil, err
	}
	f.Taxes = taxes
	return f, nil
}

// looksLikeReport counts the identifying signals of a DCTF report and accepts
// the text when at least 3 of the 4 match. One missing signal is common (a
// mangled accent, a cropped footer); two missing means this is something else.
func looksLikeReport(text string) bool {
	signals := []*regexp.Regexp{reName, reAuthority, reCNPJ, rePeriodLbl}
	matched := 0
	for _, re := range signals {
		if re.MatchString(text) {
			matched++
		}
	}
	return matched >= 3
}

func extractPeriod(text string) (period.Period, error) {
	m := rePeriod.FindStringSubmatch(text)
	if m == nil {
		return period.Period{}, ErrNoPeriod
	}
	month, ok := period.MonthFromAbbr(m[1])
	if !ok {
		return period.Period{}, ErrNoPeriod
	}
	var year int
	fmt.Sscanf(m[2], "%d", &year)
	p, err := period.New(year, month)
	if err != nil {
		return period.Period{}, fmt.Errorf("%w: %v", ErrNoPeriod, err)
	}
	return p, nil
}

// extractTaxes locates the totalization region and reads the four tax totals
// from the template offsets, after validating the token count.
func extractTaxes(text string) (sped.Tributos, error) {
	region := totalizationRegion(text)
	tokens := reDecimal.FindAllString(region, -1)
	if len(tokens) < minTotalizationTokens {
		return sped.Tributos{}, fmt.Errorf("%w: %d decimal tokens, want at least %d",
			ErrTotalizationLayout, len(tokens), minTotalizationTokens)
	}

	amounts := make(map[string]sped.Amount, len(taxColumns))
	for _, col := range taxColumns {
		a, err := sped.ParseAmount(tokens[col.offset])
		if err != nil {
			return sped.Tributos{}, fmt.Errorf("%w: token %d: %v", ErrTotalizationLayout, col.offset, err)
		}
		amounts[col.name] = a
	}
	return sped.Tributos{
		IRPJ:   amounts["IRPJ"],
		CSLL:   amounts["CSLL"],
		PIS:    amounts["PIS"],
		COFINS: amounts["COFINS"],
	}, nil
}

// totalizationRegion cuts the text between the totalization section title and
// the following section. When the titles are not found the whole text is
// returned and the token-count validation decides.
func totalizationRegion(text string) string {
	if i := strings.Index(text, totalizationStart); i >= 0 {
		text = text[i:]
	}
	if j := strings.Index(text, totalizationEnd); j > 0 {
		text = text[:j]
	}
	return text
}
