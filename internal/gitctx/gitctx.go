package gitctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepository is returned when the working directory is not inside a
// git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repository is the version-control surface the commit-message pipeline
// depends on.
type Repository interface {
	IsRepository(ctx context.Context) bool
	Status(ctx context.Context) (Status, error)
	Add(ctx context.Context, path string) error
	Diff(ctx context.Context, opts DiffOptions) (string, error)
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
	CurrentBranch(ctx context.Context) (string, error)
	RemoteURL(ctx context.Context, name string) (string, error)
	HeadCommit(ctx context.Context) (string, error)
}

// GitError reports a failed git invocation.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *GitError) Unwrap() error { return e.Err }

// ExecRepository runs the git binary inside Dir.
type ExecRepository struct {
	Dir string
	// Binary defaults to "git".
	Binary string
}

// NewExecRepository returns an ExecRepository rooted at dir.
func NewExecRepository(dir string) *ExecRepository {
	return &ExecRepository{Dir: dir}
}

// IsRepository reports whether Dir is inside a git work tree.
func (r *ExecRepository) IsRepository(ctx context.Context) bool {
	out, err := r.output(ctx, nil, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Status returns the porcelain status of the work tree, untracked files
// listed individually.
func (r *ExecRepository) Status(ctx context.Context) (Status, error) {
	out, err := r.output(ctx, nil, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(out)
}

// Add stages a single path.
func (r *ExecRepository) Add(ctx context.Context, path string) error {
	_, err := r.output(ctx, nil, "add", "--", path)
	return err
}

// Diff returns the diff selected by opts.
func (r *ExecRepository) Diff(ctx context.Context, opts DiffOptions) (string, error) {
	return r.output(ctx, nil, opts.Args()...)
}

// Commit records the index with message. The message is read from stdin so
// its length and content are not limited by the command line.
func (r *ExecRepository) Commit(ctx context.Context, message string) error {
	_, err := r.output(ctx, strings.NewReader(message), "commit", "--file", "-")
	return err
}

// Push pushes branch to remote.
func (r *ExecRepository) Push(ctx context.Context, remote, branch string) error {
	_, err := r.output(ctx, nil, "push", remote, branch)
	return err
}

// CurrentBranch returns the abbreviated name of HEAD.
func (r *ExecRepository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.output(ctx, nil, "rev-parse", "--abbrev-ref", "HEAD")
	return strings.TrimSpace(out), err
}

// RemoteURL returns the fetch URL of the named remote.
func (r *ExecRepository) RemoteURL(ctx context.Context, name string) (string, error) {
	out, err := r.output(ctx, nil, "remote", "get-url", name)
	return strings.TrimSpace(out), err
}

// HeadCommit returns the full hash of HEAD.
func (r *ExecRepository) HeadCommit(ctx context.Context) (string, error) {
	out, err := r.output(ctx, nil, "rev-parse", "HEAD")
	return strings.TrimSpace(out), err
}

func (r *ExecRepository) output(ctx context.Context, stdin *strings.Reader, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return string(out), &GitError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return string(out), nil
}
