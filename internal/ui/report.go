package ui

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dshills/cortex/internal/staging"
)

// StagingReport prints the outcome of a staging pass. Nothing is printed when
// staging did not run.
func (p *Printer) StagingReport(r staging.Report) {
	if !r.Ran {
		return
	}
	if r.NothingToStage {
		p.Notice("No changes found to stage.")
		return
	}

	p.Heading("Found modified files:")
	p.List("-", r.Modified, p.Detail)

	if len(r.Include) > 0 {
		p.Heading(fmt.Sprintf("Files matching include patterns: %s", strings.Join(r.Include, ", ")))
		p.List("-", r.Included, p.Detail)
	}
	if len(r.Exclude) > 0 {
		p.Heading(fmt.Sprintf("Files after applying exclude patterns: %s", strings.Join(r.Exclude, ", ")))
		p.List("-", r.Candidates, p.Detail)
	}
	if r.NoMatches {
		fmt.Fprintln(p.w)
		p.Notice("No files match the include/exclude patterns.")
		return
	}

	p.Heading("Attempting to stage files...")
	if n := len(r.Outcome.Staged); n > 0 {
		fmt.Fprintln(p.w)
		p.Success(fmt.Sprintf("Successfully staged %d %s:", n, plural(n, "file", "files")))
		p.List("✓", r.Outcome.Staged, p.Plain)
	}
	if n := len(r.Outcome.Failed); n > 0 {
		fmt.Fprintln(p.w)
		p.Notice(fmt.Sprintf("Failed to stage %d %s:", n, plural(n, "file", "files")))
		p.Plain(FailureTable(r.Outcome.Failed).Render())
		p.Detail("Working directory: " + r.WorkDir)
	}
	if r.Outcome.Fatal() {
		fmt.Fprintln(p.w)
		p.Error("No files were staged successfully.")
	}
}

// FailureTable returns a table of paths that could not be staged.
func FailureTable(failed []staging.Failure) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"FILE", "ERROR"})
	for _, f := range failed {
		tw.AppendRow(table.Row{f.Path, strings.TrimSpace(f.Reason)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, WidthMax: 72},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
