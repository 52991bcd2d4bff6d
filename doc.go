// Package sped decodes Brazilian SPED bookkeeping export files (pipe-delimited,
// block-tagged ledger documents) and derives aggregated revenue and tax figures
// from them.
//
// Four ledger families are recognized: the fiscal ledger (EFD ICMS/IPI), the
// contributions ledger (EFD-Contribuições), the equity bookkeeping ledger (ECD)
// and the income-tax bookkeeping ledger (ECF). A document is analyzed in a
// single sequential sweep: the opening record determines the family and layout
// version, then every record is classified by its block tag and folded into a
// per-document aggregate.
//
// The decoding is deliberately tolerant: ledger exports are large and partially
// dirty, so a malformed or missing numeric field contributes zero to its
// accumulator instead of failing the whole document. The number of such
// defaulted fields is carried on the aggregate so suspiciously dirty documents
// remain observable.
package sped
