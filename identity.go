package sped

import (
	"fmt"
	"strings"
)

// Identity is the filer of a fiscal document: its tax id (CNPJ for companies,
// CPF for individuals) and legal name.
type Identity struct {
	TaxID     string `json:"taxId"`
	LegalName string `json:"legalName"`
}

// NewIdentity builds an identity from raw header tokens, stripping tax-id
// punctuation. The tax id must be exactly 14 digits (CNPJ) or 11 digits (CPF).
func NewIdentity(taxID, legalName string) (Identity, error) {
	digits := DigitsOf(taxID)
	if len(digits) != 14 && len(digits) != 11 {
		return Identity{}, fmt.Errorf("invalid tax id %q: want 14 digits (CNPJ) or 11 (CPF)", taxID)
	}
	return Identity{TaxID: digits, LegalName: strings.TrimSpace(legalName)}, nil
}

// DigitsOf strips everything but decimal digits, turning a punctuated tax id
// like "12.345.678/0001-99" into "12345678000199".
func DigitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
