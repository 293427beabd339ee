package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dshills/cortex/internal/config"
)

// TextWriter outputs a human-readable summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, doc *Document) error {
	ew := &errWriter{w: w}

	ew.println("Cortex Configuration")
	ew.println(strings.Repeat("─", 60))
	source := "not found, using defaults"
	if doc.ConfigFound {
		source = "loaded"
	}
	ew.printf("Config file: %s (%s)\n", doc.ConfigFile, source)
	ew.printf("API host:    %s\n", doc.APIHost)
	ew.printf("API token:   %s\n", setOrMissing(doc.TokenSet))
	ew.println(strings.Repeat("─", 60))

	s := doc.Settings
	rows := []struct {
		key, value string
	}{
		{"stageAllChanges", fmt.Sprint(s.StageAllChanges)},
		{"include", listValue(s.Include)},
		{"exclude", listValue(s.Exclude)},
		{"commitStaged", fmt.Sprint(s.CommitStaged)},
		{"commitAndPushStaged", fmt.Sprint(s.CommitAndPushStaged)},
		{"header", quoted(s.Header)},
		{"preScript", quoted(s.PreScript)},
		{"withTemplates", fmt.Sprint(s.WithTemplates)},
		{"templateName", quoted(s.TemplateName)},
		{"template", templateValue(s.Template)},
		{"verbose", fmt.Sprint(s.Verbose)},
		{"redactSecrets", fmt.Sprint(s.RedactSecrets)},
	}
	for _, r := range rows {
		ew.printf("  %-20s %s\n", r.key, r.value)
	}

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func setOrMissing(ok bool) string {
	if ok {
		return "set"
	}
	return "missing"
}

func listValue(l []string) string {
	if len(l) == 0 {
		return "(none)"
	}
	return strings.Join(l, ", ")
}

func quoted(s string) string {
	if s == "" {
		return "(none)"
	}
	return fmt.Sprintf("%q", s)
}

func templateValue(t config.TemplateSelection) string {
	if t.IsZero() {
		return "(none)"
	}
	keys := make([]string, 0, len(t.Variables))
	for k := range t.Variables {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+t.Variables[k])
	}
	if len(parts) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s (%s)", t.Name, strings.Join(parts, ", "))
}
