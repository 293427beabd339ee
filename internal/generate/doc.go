// Package generate runs the commit-message command end to end.
//
// A [Workflow] checks its preconditions, resolves settings, runs the optional
// pre-script, stages and assembles the diff, asks the API for a message and
// finally offers to commit, or commit and push, with it. Outcomes where there
// is nothing to do are reported through staging.NoOpError so the caller can
// exit cleanly.
package generate
