package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/contabhub/sped/container"
	"github.com/google/subcommands"
)

type analyzeCmd struct {
	save           bool
	skipDuplicates bool
}

func (*analyzeCmd) Name() string { return "analyze" }
func (*analyzeCmd) Synopsis() string {
	return "analyze a ledger file, report PDF or zip container"
}
func (*analyzeCmd) Usage() string {
	return `analyze [-save] [-skip-duplicates] <file>

  Decodes a SPED ledger export, a DCTF/DARF PDF, or a zip container mixing
  both, and prints one outcome row per entry. With -save, analyses are stored
  (one per client, period and document type); a duplicate submission stops
  the batch unless -skip-duplicates is set.

Usage Examples:
# Inspect a container without storing anything.
$ speda analyze submissions/032024.zip

# Store the analyses.
$ speda analyze -save submissions/032024.zip

`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.save, "save", false, "persist the analyses to the store")
	f.BoolVar(&c.skipDuplicates, "skip-duplicates", false, "record duplicate conflicts per entry instead of stopping the batch")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: analyze takes exactly one file")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	data, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", name, err)
		return subcommands.ExitFailure
	}

	walker := &container.Walker{}
	if c.save {
		policy := container.AbortBatch
		if c.skipDuplicates {
			policy = container.SkipEntry
		}
		w, closeStore, err := openWalker(ctx, policy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		defer closeStore()
		walker = w
	}

	results, err := walker.Walk(ctx, name, data)
	var dup *container.DuplicateError
	if errors.As(err, &dup) {
		fmt.Fprintf(os.Stderr, "Entry %q was already analyzed for this client, period and document type; nothing from this batch was stored.\n", dup.Entry)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(results) == 0 {
		fmt.Println("No entries found.")
		return subcommands.ExitSuccess
	}

	printMarkdown(resultsMarkdown(results))
	return subcommands.ExitSuccess
}

// resultsMarkdown renders one table row per entry.
func resultsMarkdown(results []container.Result) string {
	var b strings.Builder
	b.WriteString("| Entry | Document | Period | Figures |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range results {
		b.WriteString("| ")
		b.WriteString(r.Entry)
		b.WriteString(" | ")
		switch {
		case r.Err != nil:
			fmt.Fprintf(&b, "failed | - | %v", r.Err)
		case r.Ledger != nil:
			fmt.Fprintf(&b, "%s | %s | %v", r.Ledger.Header.Family.DocumentType(), r.Ledger.Header.Period, r.Ledger.Summary())
		case r.Report != nil:
			fmt.Fprintf(&b, "REPORT | %s | %v", r.Report.Period, r.Report.Summary())
		case len(r.Payments) > 0:
			fmt.Fprintf(&b, "PAYMENTS | %s | %d payment(s)", r.Payments[0].Period, len(r.Payments))
		default:
			b.WriteString("- | - | -")
		}
		b.WriteString(" |\n")
	}
	return b.String()
}
