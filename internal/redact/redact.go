package redact

import (
	"path"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common secret types.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Secrets, tokens and passwords in quoted assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer and Basic authorization values
	regexp.MustCompile(`(?i)(Bearer|Basic)\s+[A-Za-z0-9._~+/=-]{20,}`),
	// JWTs
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+([A-Z]+\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic and OpenAI API keys
	regexp.MustCompile(`sk-(ant-)?[A-Za-z0-9_-]{20,}`),
	// Connection strings with inline credentials
	regexp.MustCompile(`[a-z][a-z0-9+.-]*://[^\s:/@]+:[^\s@/]+@[^\s]+`),
	// Long hex values assigned to key-like names
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// DefaultSensitivePaths are files whose diff bodies are withheld entirely.
var DefaultSensitivePaths = []string{".env", ".env.*", "*.pem", "*.key", "*secrets*"}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	out, _ := secrets(text)
	return out
}

func secrets(text string) (string, int) {
	n := 0
	for _, pat := range secretPatterns {
		text = pat.ReplaceAllStringFunc(text, func(string) string {
			n++
			return placeholder
		})
	}
	return text, n
}

// Diff redacts a unified diff. File headers, recognized only before a
// section's first hunk, are kept so the change remains attributable; the hunks of files matching sensitivePaths are replaced by a
// single marker line, and every other changed or context line is scanned for
// secrets. It returns the redacted diff and the number of redactions.
func Diff(diff string, sensitivePaths []string) (string, int) {
	matchers := compilePaths(sensitivePaths)

	var b strings.Builder
	count := 0
	withheld := false
	// inHeader spans a file section's extended header, up to its first hunk.
	inHeader := false
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@@") {
			inHeader = false
		}
		switch {
		case strings.HasPrefix(line, "diff --git "):
			withheld = matchesAny(matchers, diffPath(line))
			inHeader = true
			b.WriteString(line)
		case inHeader && isHeader(line):
			b.WriteString(line)
		case withheld:
			if strings.HasPrefix(line, "@@") {
				b.WriteString(line)
				b.WriteString(placeholder + " (file content withheld)\n")
				count++
			}
		default:
			redacted, n := secrets(line)
			count += n
			b.WriteString(redacted)
		}
	}
	return b.String(), count
}

func isHeader(line string) bool {
	for _, p := range []string{"--- ", "+++ ", "index ", "new file mode", "deleted file mode", "similarity index", "rename from", "rename to", "old mode", "new mode", "Binary files"} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// diffPath extracts the b/ path from a "diff --git a/x b/x" line.
func diffPath(line string) string {
	line = strings.TrimRight(line, "\n")
	if i := strings.LastIndex(line, " b/"); i >= 0 {
		return line[i+3:]
	}
	return ""
}

func compilePaths(patterns []string) []glob.Glob {
	var out []glob.Glob
	for _, p := range patterns {
		if g, err := glob.Compile(p, '/'); err == nil {
			out = append(out, g)
		}
	}
	return out
}

func matchesAny(globs []glob.Glob, p string) bool {
	if p == "" {
		return false
	}
	base := path.Base(p)
	for _, g := range globs {
		if g.Match(p) || g.Match(base) {
			return true
		}
	}
	return false
}
