// Package container walks multi-file fiscal submissions: a zip archive (or a
// stand-alone upload) whose entries are SPED ledger text files and tax-report
// PDFs. Each entry is decoded, analyzed and persisted; one entry's failure
// never stops its siblings, with the single deliberate exception of the
// duplicate-analysis conflict.
package container

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/contabhub/sped"
	"github.com/contabhub/sped/dctf"
	"github.com/contabhub/sped/pdftext"
	"github.com/contabhub/sped/period"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// Store is the persistence collaborator: the client registry upsert and the
// analysis writer. At most one analysis may exist per (client, period,
// document type); a violation is reported as ErrDuplicateAnalysis, never as a
// generic failure.
type Store interface {
	FindOrCreateClient(ctx context.Context, tenantID, taxID, legalName, defaultRegion string) (clientID string, err error)
	CreateAnalysis(ctx context.Context, clientID, taxID, filename string, docType sped.DocumentType, p period.Period, summary any) (analysisID string, err error)
}

// ErrDuplicateAnalysis is returned by Store.CreateAnalysis when an analysis
// already exists for the same client, period and document type.
var ErrDuplicateAnalysis = errors.New("analysis already exists for this client, period and document type")

// ErrUnrecognizedEntry marks an entry that is neither a readable ledger nor a
// recognized report.
var ErrUnrecognizedEntry = errors.New("unrecognized document")

// DuplicatePolicy names what a duplicate-analysis conflict does to the rest
// of the batch.
type DuplicatePolicy int

const (
	// AbortBatch stops the walk at the first duplicate conflict and surfaces
	// it instead of any partial results, so a half-resubmitted container is
	// never stored piecemeal. This is the default.
	AbortBatch DuplicatePolicy = iota
	// SkipEntry records the conflict on the entry and keeps walking.
	SkipEntry
)

// Result is the outcome of one container entry. Exactly one of Ledger,
// Report, Payments or Err is meaningful.
type Result struct {
	Entry      string
	Ledger     *sped.Analysis
	Report     *dctf.Figures
	Payments   []dctf.Payment
	AnalysisID string
	Err        error
}

// Failed reports whether the entry ended in a parse or persistence failure.
func (r Result) Failed() bool { return r.Err != nil }

// DuplicateError is the batch-level conflict returned under AbortBatch.
type DuplicateError struct {
	Entry string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.Entry, ErrDuplicateAnalysis)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateAnalysis }

// Walker dispatches submission entries to the ledger analyzer or the report
// extractors and hands the outcomes to the persistence collaborator.
type Walker struct {
	Store         Store
	TenantID      string
	DefaultRegion string // region assigned to clients created on the fly
	OnDuplicate   DuplicatePolicy

	// Parallelism bounds the entries parsed concurrently. Entries share no
	// state, so parsing them in parallel is safe; persistence stays
	// sequential and ordered. Zero means a small default.
	Parallelism int
}

// entry defers reading an archive member until its parse goroutine runs, so a
// large container is never materialized in memory at once.
type entry struct {
	name string
	read func() ([]byte, error)
}

// Walk processes a stand-alone upload or a zip container, sniffed from the
// bytes. It returns one Result per entry in submission order, or a
// DuplicateError under the AbortBatch policy.
func (w *Walker) Walk(ctx context.Context, name string, data []byte) ([]Result, error) {
	// "PK\x03\x04" opens a populated archive, "PK\x05\x06" an empty one.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) || bytes.HasPrefix(data, []byte("PK\x05\x06")) {
		return w.walkZip(ctx, data)
	}
	return w.walk(ctx, []entry{{name: name, read: func() ([]byte, error) { return data, nil }}})
}

func (w *Walker) walkZip(ctx context.Context, data []byte) ([]Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	var entries []entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, entry{name: f.Name, read: func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}})
	}
	return w.walk(ctx, entries)
}

func (w *Walker) walk(ctx context.Context, entries []entry) ([]Result, error) {
	if len(entries) == 0 {
		// an empty submission is an empty result set, not a failure.
		return nil, nil
	}

	results := make([]Result, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	limit := w.Parallelism
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Entry: e.name, Err: err}
				return nil
			}
			results[i] = parseEntry(e)
			return nil
		})
	}
	g.Wait() // goroutines never return errors; failures live in results

	for i := range results {
		r := &results[i]
		if r.Err != nil {
			log.Printf("entry %q skipped: %v", r.Entry, r.Err)
			continue
		}
		if w.Store == nil {
			continue
		}
		err := w.persist(ctx, r)
		if errors.Is(err, ErrDuplicateAnalysis) {
			if w.OnDuplicate == SkipEntry {
				r.Err = err
				continue
			}
			// collected results are discarded in favor of the conflict.
			return nil, &DuplicateError{Entry: r.Entry}
		}
		if err != nil {
			r.Err = err
		}
	}
	return results, nil
}

// parseEntry decodes and analyzes one entry. All failure modes become the
// entry's Err.
func parseEntry(e entry) Result {
	r := Result{Entry: e.name}
	data, err := e.read()
	if err != nil {
		r.Err = fmt.Errorf("read entry: %w", err)
		return r
	}

	if isPDFEntry(e.name, data) {
		text, err := pdftext.FromBytes(data)
		if err != nil {
			r.Err = err
			return r
		}
		return dispatchPDF(r, e.name, text)
	}

	// Ledger exports are produced by government software in Latin-1,
	// regardless of platform locale. Decode is fixed, never inferred.
	text, err := charmap.ISO8859_1.NewDecoder().String(string(data))
	if err != nil {
		r.Err = fmt.Errorf("decode entry: %w", err)
		return r
	}
	r.Ledger, r.Err = sped.Analyze(text)
	return r
}

// dispatchPDF routes a PDF entry by name keyword first, then by content.
func dispatchPDF(r Result, name, text string) Result {
	switch lower := strings.ToLower(name); {
	case strings.Contains(lower, "dctf"):
		r.Report, r.Err = dctf.Extract(text)
	case strings.Contains(lower, "darf"):
		r.Payments, r.Err = dctf.ExtractPayments(text)
	default:
		// uninformative name: sniff the extracted text.
		if dctf.IsPaymentReceipt(text) {
			r.Payments, r.Err = dctf.ExtractPayments(text)
			return r
		}
		figures, err := dctf.Extract(text)
		if errors.Is(err, dctf.ErrNotReport) {
			r.Err = ErrUnrecognizedEntry
			return r
		}
		r.Report, r.Err = figures, err
	}
	return r
}

func isPDFEntry(name string, data []byte) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf") || pdftext.IsPDF(data)
}

// persist resolves the filer in the client registry and stores the entry's
// analysis. Payment lists are parse output only; they have no stored
// document type.
func (w *Walker) persist(ctx context.Context, r *Result) error {
	var (
		filer   sped.Identity
		p       period.Period
		docType sped.DocumentType
		summary any
	)
	switch {
	case r.Ledger != nil:
		filer = r.Ledger.Header.Filer
		p = r.Ledger.Header.Period
		docType = r.Ledger.Header.Family.DocumentType()
		summary = r.Ledger.Summary()
	case r.Report != nil:
		filer = r.Report.Filer
		p = r.Report.Period
		docType = sped.Report
		summary = r.Report.Summary()
	default:
		return nil
	}

	clientID, err := w.Store.FindOrCreateClient(ctx, w.TenantID, filer.TaxID, filer.LegalName, w.DefaultRegion)
	if err != nil {
		return fmt.Errorf("resolve client %s: %w", filer.TaxID, err)
	}
	id, err := w.Store.CreateAnalysis(ctx, clientID, filer.TaxID, r.Entry, docType, p, summary)
	if err != nil {
		return err
	}
	r.AnalysisID = id
	return nil
}
