package dctf

import (
	"regexp"
	"strings"

	"github.com/contabhub/sped"
	"github.com/contabhub/sped/period"
)

// Payment is one federal tax payment read from a DARF receipt.
type Payment struct {
	Period period.Period `json:"period"`
	Code   string        `json:"code"` // Receita Federal revenue code, 4 digits
	Amount sped.Amount   `json:"amount"`
}

var (
	reDARF        = regexp.MustCompile(`(?i)Documento de Arrecada[çc][ãa]o de Receitas Federais|\bDARF\b`)
	reRevenueCode = regexp.MustCompile(`(?i)C[óo]digo da Receita\D*(\d{4})`)
	reTotalValue  = regexp.MustCompile(`(?i)Valor Total\D*(\d{1,3}(?:\.\d{3})*,\d{2})`)
)

// IsPaymentReceipt reports whether the text reads as a DARF receipt.
func IsPaymentReceipt(text string) bool {
	return reDARF.MatchString(text)
}

// ExtractPayments pulls the payment records out of a DARF receipt text. A
// receipt usually carries a single payment; consolidated receipts repeat the
// code/value pair once per tax.
func ExtractPayments(text string) ([]Payment, error) {
	if !IsPaymentReceipt(text) {
		return nil, ErrNotReport
	}
	p, err := extractPeriod(text)
	if err != nil {
		return nil, err
	}

	codes := reRevenueCode.FindAllStringSubmatch(text, -1)
	values := reTotalValue.FindAllStringSubmatch(text, -1)
	var payments []Payment
	for i, code := range codes {
		if i >= len(values) {
			break
		}
		amount, err := sped.ParseAmount(strings.TrimSpace(values[i][1]))
		if err != nil {
			continue
		}
		payments = append(payments, Payment{Period: p, Code: code[1], Amount: amount})
	}
	return payments, nil
}
