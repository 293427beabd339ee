// Package config resolves the effective settings of a commit-message run.
//
// Precedence (highest to lowest):
//  1. Invocation options (CLI flags)
//  2. Persisted project config (.cortexrc in the working directory)
//  3. Settings carried by the selected remote template
//  4. Built-in defaults
//
// Two fields groups deviate from plain last-set-wins: the commit toggles
// (commitStaged, commitAndPushStaged) are taken as a pair from a single tier,
// and the include/exclude lists are each taken whole from the first tier that
// supplies a non-empty list.
//
// Use [LoadFile] to read the persisted layer, [Resolver.Resolve] to produce a
// [ResolvedSettings], and [LoadEnvironment] for the API credentials.
package config
