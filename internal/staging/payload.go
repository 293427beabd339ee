package staging

import (
	"fmt"
	"strings"

	"github.com/dshills/cortex/internal/gitctx"
)

// BinaryPatterns lists the binary and generated files kept out of the
// textual diff and represented by placeholder segments instead.
var BinaryPatterns = []string{
	"*.svg", "*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.webp",
	"*.pdf",
	"*.mp4", "*.webm", "*.mov", "*.mp3", "*.wav",
	"*.woff", "*.woff2", "*.ttf", "*.eot",
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
}

var binaryMatcher = MustCompileMatcher(BinaryPatterns)

// IsBinaryPath reports whether p is represented by a placeholder.
func IsBinaryPath(p string) bool { return binaryMatcher.Match(p) }

// Placeholder actions.
const (
	ActionAdded    = "added"
	ActionDeleted  = "deleted"
	ActionModified = "modified"
)

func actionFor(st gitctx.Status, p string) string {
	switch {
	case st.IsCreated(p):
		return ActionAdded
	case st.IsDeleted(p):
		return ActionDeleted
	default:
		return ActionModified
	}
}

// Segment stands in for the diff of one binary or generated file.
type Segment struct {
	Path   string
	Action string
}

func (s Segment) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", s.Path, s.Path)
	fmt.Fprintf(&b, "--- a/%s\n", s.Path)
	fmt.Fprintf(&b, "+++ b/%s\n", s.Path)
	fmt.Fprintf(&b, "@@ -1 +1 @@\n")
	sign := "+"
	if s.Action == ActionDeleted {
		sign = "-"
	}
	fmt.Fprintf(&b, "%s Binary file %s was %s", sign, s.Path, s.Action)
	return b.String()
}

// Payload is the diff sent for generation: placeholder segments in staged
// order, then the textual diff.
type Payload struct {
	Placeholders []Segment
	Text         string
}

// IsEmpty reports whether there is nothing to send.
func (p Payload) IsEmpty() bool {
	return len(p.Placeholders) == 0 && strings.TrimSpace(p.Text) == ""
}

// String concatenates the placeholders and the textual diff, separated by a
// blank line. An empty part is omitted.
func (p Payload) String() string {
	var parts []string
	if len(p.Placeholders) > 0 {
		segs := make([]string, len(p.Placeholders))
		for i, s := range p.Placeholders {
			segs[i] = s.String()
		}
		parts = append(parts, strings.Join(segs, "\n"))
	}
	if text := strings.TrimRight(p.Text, "\n"); strings.TrimSpace(text) != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}
