package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/contabhub/sped/container"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct{}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "explain the figures of a fiscal document with the AI assistant"
}
func (*assistCmd) Usage() string {
	return `assist <file> [question]

  Analyzes a document locally and asks the assistant to explain the derived
  figures in plain language. Nothing is stored. Requires Gemini credentials
  in the environment.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: assist takes a file and an optional question")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)
	question := "Explain these figures to an accountant in two short paragraphs."
	if f.NArg() > 1 {
		question = strings.Join(f.Args()[1:], " ")
	}

	data, err := os.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", name, err)
		return subcommands.ExitFailure
	}
	results, err := (&container.Walker{}).Walk(ctx, name, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	digest, err := json.MarshalIndent(assistDigest(results), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding figures: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	prompt := fmt.Sprintf(
		"These are aggregated figures derived from Brazilian fiscal documents (values in BRL):\n%s\n\n%s",
		digest, question)
	resp, err := client.Models.GenerateContent(ctx, "gemini-2.5-flash", genai.Text(prompt), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}

// assistDigest flattens walk results into a JSON-friendly shape for the
// prompt.
func assistDigest(results []container.Result) []map[string]any {
	var digest []map[string]any
	for _, r := range results {
		entry := map[string]any{"entry": r.Entry}
		switch {
		case r.Err != nil:
			entry["error"] = r.Err.Error()
		case r.Ledger != nil:
			entry["documentType"] = r.Ledger.Header.Family.DocumentType()
			entry["period"] = r.Ledger.Header.Period
			entry["summary"] = r.Ledger.Summary()
		case r.Report != nil:
			entry["documentType"] = "REPORT"
			entry["period"] = r.Report.Period
			entry["summary"] = r.Report.Summary()
		case len(r.Payments) > 0:
			entry["documentType"] = "PAYMENTS"
			entry["payments"] = r.Payments
		}
		digest = append(digest, entry)
	}
	return digest
}
