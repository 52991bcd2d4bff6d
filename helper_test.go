package sped

import "strings"

// Synthetic minimal documents used across the package tests. Lines follow the
// published record layouts: leading and trailing delimiter, block tag second.

// fiscalHeader is a recognized EFD ICMS/IPI opening record (layout 010),
// period 03/2024, filer 12345678000199.
const fiscalHeader = "|0000|010|0|01032024|31032024|ACME COMERCIO LTDA|12345678000199||SP|110042490114|3550308|||A|0|"

// contributionsHeader is a recognized EFD-Contribuições opening record
// (layout 006), period 03/2024.
const contributionsHeader = "|0000|006|0|0||01032024|31032024|ACME COMERCIO LTDA|12345678000199|SP|3550308||00|"

const equityHeader = "|0000|LECD|01012024|31012024|ACME COMERCIO LTDA|12345678000199|SP|110042490114|3550308||00|0|0|0|"

const incomeTaxHeader = "|0000|LECF|0001|12345678000199|ACME COMERCIO LTDA|0|N|01012024|31122024|N|N|0|"

// doc joins ledger lines into a document.
func doc(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

// c100 builds a goods-invoice record with the given issuer indicator and
// document value.
func c100(indEmit, vlDoc string) string {
	return "|C100|1|" + indEmit + "|F001|55|00|1|4221||01032024|01032024|" + vlDoc + "|1|0,00|0,00|" + vlDoc + "|9|||||||||||||"
}

// e110 builds an ICMS totalization record with the given balance due (field
// 13) and special debits (field 15).
func e110(recolher, debEsp string) string {
	return "|E110|1000,00|0,00|0,00|0,00|500,00|0,00|0,00|0,00|0,00|500,00|0,00|" + recolher + "|0,00|" + debEsp + "|"
}

// e520 builds an IPI totalization record whose balance due is its last field.
func e520(saldoDevedor string) string {
	return "|E520|0,00|200,00|100,00|0,00|0,00|" + saldoDevedor + "|"
}
