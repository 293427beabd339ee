package gitctx

import "strings"

// excludeMagic resolves an exclusion pathspec from the top of the work tree
// rather than the directory git runs in.
const excludeMagic = ":(top,exclude)"

// DiffOptions controls how a diff is requested.
type DiffOptions struct {
	Cached           bool
	Minimal          bool
	IgnoreAllSpace   bool
	IgnoreBlankLines bool
	// Exclude holds glob patterns kept out of the diff, anchored at the
	// repository root whatever the working directory. A pattern without a
	// slash is excluded at every depth.
	Exclude []string
}

// Args returns the git arguments for the diff, starting with "diff".
func (o DiffOptions) Args() []string {
	args := []string{"diff"}
	if o.Cached {
		args = append(args, "--cached")
	}
	if o.Minimal {
		args = append(args, "--minimal")
	}
	if o.IgnoreAllSpace {
		args = append(args, "--ignore-all-space")
	}
	if o.IgnoreBlankLines {
		args = append(args, "--ignore-blank-lines")
	}
	if len(o.Exclude) == 0 {
		return args
	}
	args = append(args, "--", ":/")
	for _, p := range o.Exclude {
		args = append(args, excludeMagic+p)
		// Default pathspec matching lets '*' cross directories, so only
		// patterns naming a literal file need an explicit nested form.
		if !strings.ContainsAny(p, "*?[/") {
			args = append(args, excludeMagic+"*/"+p)
		}
	}
	return args
}
