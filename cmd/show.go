package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/contabhub/sped"
	"github.com/contabhub/sped/period"
	"github.com/contabhub/sped/store"
	"github.com/google/subcommands"
)

type showCmd struct {
	taxID     string
	periodStr string
	docType   string
	path      string
}

func (*showCmd) Name() string { return "show" }
func (*showCmd) Synopsis() string {
	return "show a stored analysis, optionally plucking one value"
}
func (*showCmd) Usage() string {
	return `show -taxid <cnpj> -period <mm/yyyy> [-type <document type>] [-path <jsonpath>]

  Fetches the stored analysis of a client for one period and document type
  and prints its summary. With -path, prints only the value selected by a
  JSONPath expression.

Usage Examples:
$ speda show -taxid 12345678000199 -period 03/2024 -type FISCAL_LEDGER
$ speda show -taxid 12345678000199 -period 03/2024 -type REPORT -path '$.tributos.cofins'

`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.taxID, "taxid", "", "client tax id (CNPJ or CPF, punctuation allowed)")
	f.StringVar(&c.periodStr, "period", "", "fiscal period as mm/yyyy")
	f.StringVar(&c.docType, "type", string(sped.FiscalLedger), "document type")
	f.StringVar(&c.path, "path", "", "JSONPath expression into the summary")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.taxID == "" || c.periodStr == "" {
		fmt.Fprintln(os.Stderr, "Error: -taxid and -period are required")
		return subcommands.ExitUsageError
	}
	p, err := period.Parse(c.periodStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg, err := store.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := store.Open(ctx, cfg.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	stored, err := db.GetAnalysis(ctx, cfg.TenantID, sped.DigitsOf(c.taxID), p, sped.DocumentType(c.docType))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.path == "" {
		fmt.Printf("%s %s %s (%s)\n%s\n", stored.DocType, c.taxID, stored.Period, stored.Filename, stored.Summary)
		return subcommands.ExitSuccess
	}

	var jobj any
	if err := json.Unmarshal(stored.Summary, &jobj); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding summary: %v\n", err)
		return subcommands.ExitFailure
	}
	jval, err := jsonpath.Get(c.path, jobj)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", c.path, err)
		return subcommands.ExitFailure
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or
	// a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	fmt.Println(jval)
	return subcommands.ExitSuccess
}
