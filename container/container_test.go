package container

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/contabhub/sped"
	"github.com/contabhub/sped/period"
)

// fiscalDoc builds a minimal fiscal ledger for the given filer name, encoded
// the way government software emits it.
func fiscalDoc(name string) []byte {
	return []byte("|0000|010|0|01032024|31032024|" + name + "|12345678000199||SP|\n" +
		"|C100|1|0|F001|55|00|1|4221||01032024|01032024|1500,50|\n")
}

func contributionsDoc() []byte {
	return []byte("|0000|006|0|0||01032024|31032024|ACME COMERCIO LTDA|12345678000199|SP|\n" +
		"|M200|10,00|0,00|0,00|0,00|0,00|0,00|10,00|5,00|0,00|0,00|5,00|15,00|\n")
}

// zipOf builds an in-memory container with the given entries, in order.
func zipOf(t *testing.T, entries map[string][]byte, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %q: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			t.Fatalf("zip write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// fakeStore records persistence calls and signals a duplicate conflict for a
// chosen filename.
type fakeStore struct {
	duplicateOn string
	created     []string // filenames in persistence order
}

func (s *fakeStore) FindOrCreateClient(_ context.Context, tenantID, taxID, legalName, defaultRegion string) (string, error) {
	return "client-1", nil
}

func (s *fakeStore) CreateAnalysis(_ context.Context, clientID, taxID, filename string, docType sped.DocumentType, p period.Period, summary any) (string, error) {
	if filename == s.duplicateOn {
		return "", ErrDuplicateAnalysis
	}
	s.created = append(s.created, filename)
	return fmt.Sprintf("analysis-%d", len(s.created)), nil
}

func TestWalkAbortsBatchOnDuplicate(t *testing.T) {
	data := zipOf(t, map[string][]byte{
		"a.txt": fiscalDoc("ACME A"),
		"b.txt": contributionsDoc(),
		"c.txt": fiscalDoc("ACME C"),
	}, "a.txt", "b.txt", "c.txt")

	store := &fakeStore{duplicateOn: "b.txt"}
	w := &Walker{Store: store, TenantID: "t1", DefaultRegion: "SP"}

	results, err := w.Walk(context.Background(), "batch.zip", data)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("Walk() error = %v, want DuplicateError", err)
	}
	if dup.Entry != "b.txt" {
		t.Errorf("conflict entry = %q, want %q", dup.Entry, "b.txt")
	}
	if !errors.Is(err, ErrDuplicateAnalysis) {
		t.Error("DuplicateError should unwrap to ErrDuplicateAnalysis")
	}
	if results != nil {
		t.Errorf("partial results must be discarded, got %d", len(results))
	}
	// the third entry must not have been persisted.
	if len(store.created) != 1 || store.created[0] != "a.txt" {
		t.Errorf("persisted = %v, want only a.txt", store.created)
	}
}

func TestWalkSkipEntryPolicy(t *testing.T) {
	data := zipOf(t, map[string][]byte{
		"a.txt": fiscalDoc("ACME A"),
		"b.txt": contributionsDoc(),
		"c.txt": fiscalDoc("ACME C"),
	}, "a.txt", "b.txt", "c.txt")

	store := &fakeStore{duplicateOn: "b.txt"}
	w := &Walker{Store: store, TenantID: "t1", OnDuplicate: SkipEntry}

	results, err := w.Walk(context.Background(), "batch.zip", data)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !errors.Is(results[1].Err, ErrDuplicateAnalysis) {
		t.Errorf("results[1].Err = %v, want duplicate conflict", results[1].Err)
	}
	if want := []string{"a.txt", "c.txt"}; len(store.created) != 2 || store.created[0] != want[0] || store.created[1] != want[1] {
		t.Errorf("persisted = %v, want %v", store.created, want)
	}
}

// One entry's parse failure must not stop its siblings.
func TestWalkIsolatesParseFailures(t *testing.T) {
	data := zipOf(t, map[string][]byte{
		"good.txt": fiscalDoc("ACME"),
		"bad.txt":  []byte("this is not a ledger\nat all\n"),
	}, "good.txt", "bad.txt")

	store := &fakeStore{}
	w := &Walker{Store: store, TenantID: "t1"}

	results, err := w.Walk(context.Background(), "batch.zip", data)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Failed() {
		t.Errorf("good.txt failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, sped.ErrNoHeader) {
		t.Errorf("bad.txt error = %v, want %v", results[1].Err, sped.ErrNoHeader)
	}
	if results[0].AnalysisID == "" {
		t.Error("good.txt should carry its analysis id")
	}
}

// Ledger bytes are Latin-1, never UTF-8: a 0xC7 byte is "Ç".
func TestWalkDecodesLatin1(t *testing.T) {
	results, err := (&Walker{}).Walk(context.Background(), "acme.txt", fiscalDoc("A\xc7O FINO SA"))
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if len(results) != 1 || results[0].Failed() {
		t.Fatalf("unexpected results: %+v", results)
	}
	if got := results[0].Ledger.Header.Filer.LegalName; got != "AÇO FINO SA" {
		t.Errorf("LegalName = %q, want %q", got, "AÇO FINO SA")
	}
}

func TestWalkEmptyContainer(t *testing.T) {
	data := zipOf(t, nil)
	results, err := (&Walker{}).Walk(context.Background(), "empty.zip", data)
	if err != nil {
		t.Fatalf("Walk() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestDispatchPDFRouting(t *testing.T) {
	report := `Declaração de Débitos e Créditos Tributários Federais
Secretaria da Receita Federal do Brasil
CNPJ: 12.345.678/0001-99
Período de Apuração: mar/2024
Totalização dos Débitos e Créditos
0,00 50,64 50,64 0,00 0,00 0,00 0,00 0,00 0,00 0,00 45,58 45,58 0,00 0,00 22,46 22,46
Relação dos Débitos Apurados
`
	darf := `Documento de Arrecadação de Receitas Federais
Período de Apuração: 31/mar/2024
Código da Receita: 2089
Valor Total: 1.234,56
`

	t.Run("report by name keyword", func(t *testing.T) {
		r := dispatchPDF(Result{Entry: "DCTF_032024.pdf"}, "DCTF_032024.pdf", report)
		if r.Err != nil || r.Report == nil {
			t.Fatalf("want report, got %+v", r)
		}
	})
	t.Run("payment by name keyword", func(t *testing.T) {
		r := dispatchPDF(Result{Entry: "darf_mar.pdf"}, "darf_mar.pdf", darf)
		if r.Err != nil || len(r.Payments) != 1 {
			t.Fatalf("want one payment, got %+v", r)
		}
	})
	t.Run("report by content sniffing", func(t *testing.T) {
		r := dispatchPDF(Result{Entry: "doc1.pdf"}, "doc1.pdf", report)
		if r.Err != nil || r.Report == nil {
			t.Fatalf("want report, got %+v", r)
		}
	})
	t.Run("payment by content sniffing", func(t *testing.T) {
		r := dispatchPDF(Result{Entry: "doc2.pdf"}, "doc2.pdf", darf)
		if r.Err != nil || len(r.Payments) != 1 {
			t.Fatalf("want one payment, got %+v", r)
		}
	})
	t.Run("unrecognized content", func(t *testing.T) {
		r := dispatchPDF(Result{Entry: "doc3.pdf"}, "doc3.pdf", "some unrelated scanned letter")
		if !errors.Is(r.Err, ErrUnrecognizedEntry) {
			t.Errorf("Err = %v, want %v", r.Err, ErrUnrecognizedEntry)
		}
	})
}
