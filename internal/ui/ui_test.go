package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/staging"
)

func linePrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestPrinterPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Notice("No templates found.")
	p.Success("done")
	assert.Equal(t, "No templates found.\ndone\n", buf.String())
}

func TestPrinterSettings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	s := config.Defaults()
	s.Header = "[ABC-1]"
	p.Settings(s)

	out := buf.String()
	assert.Contains(t, out, "Configuration:")
	assert.Contains(t, out, `"header": "[ABC-1]"`)
	assert.Contains(t, out, `"stageAllChanges": false`)
}

func TestStagingReportNotRun(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).StagingReport(staging.Report{})
	assert.Empty(t, buf.String())
}

func TestStagingReportNothingToStage(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).StagingReport(staging.Report{Ran: true, NothingToStage: true})
	assert.Equal(t, "No changes found to stage.\n", buf.String())
}

func TestStagingReportNoMatches(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).StagingReport(staging.Report{
		Ran:       true,
		Modified:  []string{"a.go", "b.md"},
		Include:   []string{"*.txt"},
		NoMatches: true,
	})
	out := buf.String()
	assert.Contains(t, out, "Found modified files:")
	assert.Contains(t, out, "  - a.go")
	assert.Contains(t, out, "Files matching include patterns: *.txt")
	assert.Contains(t, out, "No files match the include/exclude patterns.")
	assert.NotContains(t, out, "Attempting to stage")
}

func TestStagingReportPartialFailure(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).StagingReport(staging.Report{
		Ran:        true,
		WorkDir:    "/work/proj",
		Modified:   []string{"a.go", "locked.bin"},
		Candidates: []string{"a.go", "locked.bin"},
		Outcome: staging.Outcome{
			Staged: []string{"a.go"},
			Failed: []staging.Failure{{Path: "locked.bin", Reason: "permission denied"}},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Successfully staged 1 file:")
	assert.Contains(t, out, "✓ a.go")
	assert.Contains(t, out, "Failed to stage 1 file:")
	assert.Contains(t, out, "locked.bin")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "Working directory: /work/proj")
	assert.NotContains(t, out, "No files were staged successfully.")
}

func TestStagingReportAllFailed(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).StagingReport(staging.Report{
		Ran:      true,
		Modified: []string{"x"},
		Outcome:  staging.Outcome{Failed: []staging.Failure{{Path: "x", Reason: "boom"}}},
	})
	assert.Contains(t, buf.String(), "No files were staged successfully.")
}

func TestFailureTable(t *testing.T) {
	out := FailureTable([]staging.Failure{{Path: "a", Reason: "  bad \n"}}).Render()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "bad")
}

func TestPrompterSelectByNumber(t *testing.T) {
	p, out := linePrompter("2\n")
	got, err := p.Select(context.Background(), "Choose the template:", []string{"a", "b", "(none)"})
	require.NoError(t, err)
	assert.Equal(t, "b", got)
	assert.Contains(t, out.String(), "  3) (none)")
}

func TestPrompterSelectByName(t *testing.T) {
	p, _ := linePrompter("(none)\n")
	got, err := p.Select(context.Background(), "Pick", []string{"a", "(none)"})
	require.NoError(t, err)
	assert.Equal(t, "(none)", got)
}

func TestPrompterSelectInvalid(t *testing.T) {
	p, _ := linePrompter("9\n")
	_, err := p.Select(context.Background(), "Pick", []string{"a"})
	assert.Error(t, err)

	p, _ = linePrompter("zzz\n")
	_, err = p.Select(context.Background(), "Pick", []string{"a"})
	assert.Error(t, err)

	p, _ = linePrompter("")
	_, err = p.Select(context.Background(), "Pick", nil)
	assert.Error(t, err)
}

func TestPrompterInputSequence(t *testing.T) {
	p, out := linePrompter("api\n  v2  \n")
	first, err := p.Input(context.Background(), "scope:")
	require.NoError(t, err)
	second, err := p.Input(context.Background(), "version:")
	require.NoError(t, err)
	assert.Equal(t, "api", first)
	assert.Equal(t, "v2", second)
	assert.Contains(t, out.String(), "scope: ")
}

func TestPrompterInputWithoutTrailingNewline(t *testing.T) {
	p, _ := linePrompter("last")
	got, err := p.Input(context.Background(), "x:")
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestPrompterInputEOFAborts(t *testing.T) {
	p, _ := linePrompter("")
	_, err := p.Input(context.Background(), "x:")
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestPrompterCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p, _ := linePrompter("y\n")
	_, err := p.Confirm(ctx, "ok?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"yep\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		p, _ := linePrompter(tt.answer)
		got, err := p.Confirm(context.Background(), "Commit? (y/yes): ")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer %q", tt.answer)
	}
}

func TestSelectModelNavigation(t *testing.T) {
	m := newSelectModel("Pick", []string{"a", "b", "c"}, promptStyles{})

	step := func(m selectModel, k tea.KeyMsg) (selectModel, tea.Cmd) {
		next, cmd := m.Update(k)
		return next.(selectModel), cmd
	}

	m, _ = step(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	m, _ = step(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.cursor)
	assert.Contains(t, m.View(), "> c")

	m, cmd := step(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.done)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Pick c")
}

func TestSelectModelAbort(t *testing.T) {
	m := newSelectModel("Pick", []string{"a"}, promptStyles{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(selectModel).aborted)
	assert.NotNil(t, cmd)
}

func TestInputModelTyping(t *testing.T) {
	m := newInputModel("scope:", promptStyles{})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("api")})
	m = next.(inputModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inputModel)
	assert.True(t, m.done)
	assert.NotNil(t, cmd)
	assert.Equal(t, "api", m.input.Value())
}
