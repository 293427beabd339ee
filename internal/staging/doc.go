// Package staging selects and stages working-tree changes and assembles the
// diff payload sent for commit-message generation.
//
// Staging narrows the modified files with include globs, then exclude globs,
// and stages each survivor on its own so one failure does not stop the rest.
// Diff assembly replaces binary and lockfile content with fixed placeholder
// segments and asks git for a whitespace-insensitive minimal diff of
// everything else. Empty outcomes are reported as a [*NoOpError].
package staging
