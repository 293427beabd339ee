package staging

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/gitctx"
	"github.com/dshills/cortex/internal/redact"
)

// Failure records a path that could not be staged.
type Failure struct {
	Path   string
	Reason string
}

// Outcome partitions the staging attempts.
type Outcome struct {
	Staged []string
	Failed []Failure
}

// Attempted is the number of paths staging was tried on.
func (o Outcome) Attempted() int { return len(o.Staged) + len(o.Failed) }

// Fatal reports whether paths were attempted and none succeeded.
func (o Outcome) Fatal() bool { return len(o.Staged) == 0 && len(o.Failed) > 0 }

// Report describes one staging pass for display.
type Report struct {
	// Ran is false when the staging toggle was off or the pass stopped
	// before the modified files were listed.
	Ran            bool
	WorkDir        string
	Modified       []string
	Include        []string
	Exclude        []string
	Included       []string
	Candidates     []string
	NothingToStage bool
	NoMatches      bool
	Outcome        Outcome
}

// Assembler stages working-tree changes and assembles the diff payload.
type Assembler struct {
	repo    gitctx.Repository
	workDir string
	logger  *slog.Logger
}

// New returns an Assembler operating on repo, whose paths are reported
// relative to workDir.
func New(repo gitctx.Repository, workDir string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{repo: repo, workDir: workDir, logger: logger}
}

// StageAndBuildDiff runs the optional staging pass selected by settings and
// then assembles the diff. The report is meaningful even when err is non-nil.
func (a *Assembler) StageAndBuildDiff(ctx context.Context, s config.ResolvedSettings) (Report, Payload, error) {
	var report Report
	if s.StageAllChanges {
		var err error
		report, err = a.Stage(ctx, s.Include, s.Exclude)
		if err != nil {
			return report, Payload{}, err
		}
	}
	payload, err := a.BuildDiff(ctx, s.RedactSecrets)
	return report, payload, err
}

// ModifiedFiles lists every changed path in the work tree: untracked,
// modified, deleted, rename destinations and added files. Paths use forward
// slashes and are de-duplicated in first-seen order.
func (a *Assembler) ModifiedFiles(ctx context.Context) ([]string, error) {
	st, err := a.repo.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var raw []string
	raw = append(raw, st.NotAdded...)
	raw = append(raw, st.Modified...)
	raw = append(raw, st.Deleted...)
	for _, r := range st.Renamed {
		raw = append(raw, r.To)
	}
	raw = append(raw, st.Created...)

	prefix := ""
	if base := filepath.Base(a.workDir); a.workDir != "" && base != "." && base != string(filepath.Separator) {
		prefix = base + "/"
	}

	files := []string{}
	seen := make(map[string]bool)
	for _, f := range raw {
		f = NormalizePath(f, prefix)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	return files, nil
}

// NormalizePath trims p, converts backslashes to slashes and strips prefix
// when p starts with it.
func NormalizePath(p, prefix string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if prefix != "" {
		p = strings.TrimPrefix(p, prefix)
	}
	return p
}

// Stage stages the modified files selected by include and then exclude, one
// path at a time. A path that fails is recorded and the loop continues. When
// every attempt fails the report is returned with a *StagingError.
func (a *Assembler) Stage(ctx context.Context, include, exclude []string) (Report, error) {
	report := Report{WorkDir: a.workDir, Include: include, Exclude: exclude}

	includeM, err := CompileMatcher(include)
	if err != nil {
		return report, fmt.Errorf("include patterns: %w", err)
	}
	excludeM, err := CompileMatcher(exclude)
	if err != nil {
		return report, fmt.Errorf("exclude patterns: %w", err)
	}

	report.Modified, err = a.ModifiedFiles(ctx)
	if err != nil {
		return report, err
	}
	report.Ran = true
	if len(report.Modified) == 0 {
		report.NothingToStage = true
		return report, nil
	}

	report.Included, report.Candidates = SelectCandidates(report.Modified, includeM, excludeM)
	if len(report.Candidates) == 0 {
		report.NoMatches = true
		return report, nil
	}

	for _, p := range report.Candidates {
		if err := a.repo.Add(ctx, p); err != nil {
			a.logger.Debug("staging failed", "path", p, "error", err)
			report.Outcome.Failed = append(report.Outcome.Failed, Failure{Path: p, Reason: err.Error()})
			continue
		}
		report.Outcome.Staged = append(report.Outcome.Staged, p)
	}

	if report.Outcome.Fatal() {
		return report, &StagingError{Failed: report.Outcome.Failed}
	}
	return report, nil
}

// SelectCandidates applies include then exclude filtering. An empty matcher
// leaves the list unchanged. The include result is returned for display.
func SelectCandidates(files []string, include, exclude *Matcher) (included, candidates []string) {
	included = files
	if !include.Empty() {
		included = include.Filter(files, true)
	}
	candidates = included
	if !exclude.Empty() {
		candidates = exclude.Filter(included, false)
	}
	return included, candidates
}

// BuildDiff assembles the payload from what is currently staged. It returns
// a *NoOpError when nothing is staged or the assembled payload is empty.
func (a *Assembler) BuildDiff(ctx context.Context, redactSecrets bool) (Payload, error) {
	st, err := a.repo.Status(ctx)
	if err != nil {
		return Payload{}, fmt.Errorf("reading status: %w", err)
	}
	if len(st.Staged) == 0 {
		return Payload{}, &NoOpError{Reason: ReasonNoStagedChanges}
	}

	var payload Payload
	for _, f := range st.Staged {
		if binaryMatcher.Match(f) {
			payload.Placeholders = append(payload.Placeholders, Segment{Path: f, Action: actionFor(st, f)})
		}
	}

	text, err := a.repo.Diff(ctx, gitctx.DiffOptions{
		Cached:           true,
		Minimal:          true,
		IgnoreAllSpace:   true,
		IgnoreBlankLines: true,
		Exclude:          BinaryPatterns,
	})
	if err != nil {
		return Payload{}, fmt.Errorf("reading staged diff: %w", err)
	}
	if redactSecrets {
		var n int
		text, n = redact.Diff(text, redact.DefaultSensitivePaths)
		a.logger.Debug("redacted diff", "redactions", n)
	}
	payload.Text = text

	if payload.IsEmpty() {
		return Payload{}, &NoOpError{Reason: ReasonEmptyDiff}
	}
	a.logger.Debug("assembled diff", "placeholders", len(payload.Placeholders), "bytes", len(payload.Text))
	return payload, nil
}
