package gitctx

import (
	"context"
	"regexp"
	"strings"
)

// DefaultRemote is the remote pushed to and used for commit links.
const DefaultRemote = "origin"

var (
	scpRemoteRe     = regexp.MustCompile(`^[^@/]+@([^:/]+):`)
	sshRemoteRe     = regexp.MustCompile(`^ssh://(?:[^@/]+@)?([^/:]+)(?::\d+)?/`)
	httpsUserinfoRe = regexp.MustCompile(`^(https?://)[^@/]+@`)
)

// hostCommitPaths maps hosting services to the path segment placed between
// the repository URL and a commit hash.
var hostCommitPaths = []struct {
	host string
	path string
}{
	{"github.com", "/commit/"},
	{"gitlab.com", "/-/commit/"},
	{"bitbucket.org", "/commits/"},
}

// CommitLink returns a browsable URL for hash on the host behind remoteURL.
// Unknown hosts and empty remotes yield the bare hash.
func CommitLink(remoteURL, hash string) string {
	remoteURL = strings.TrimSpace(remoteURL)
	if remoteURL == "" {
		return hash
	}
	for _, h := range hostCommitPaths {
		if strings.Contains(remoteURL, h.host) {
			return WebURL(remoteURL) + h.path + hash
		}
	}
	return hash
}

// WebURL converts a git remote URL into its https form: scp-style and ssh://
// remotes are rewritten, credentials dropped, and any ".git" suffix or
// trailing slash removed.
func WebURL(remoteURL string) string {
	u := strings.TrimSpace(remoteURL)
	switch {
	case scpRemoteRe.MatchString(u):
		u = scpRemoteRe.ReplaceAllString(u, "https://$1/")
	case sshRemoteRe.MatchString(u):
		u = sshRemoteRe.ReplaceAllString(u, "https://$1/")
	default:
		u = httpsUserinfoRe.ReplaceAllString(u, "$1")
	}
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	return strings.TrimSuffix(u, "/")
}

// ResolveCommitLink builds the link for HEAD using the default remote.
// A missing remote is not an error; the bare hash is returned.
func ResolveCommitLink(ctx context.Context, repo Repository) (string, error) {
	hash, err := repo.HeadCommit(ctx)
	if err != nil {
		return "", err
	}
	remote, err := repo.RemoteURL(ctx, DefaultRemote)
	if err != nil {
		remote = ""
	}
	return CommitLink(remote, hash), nil
}
