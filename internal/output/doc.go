// Package output formats the effective configuration for display or machine
// consumption.
//
// Three formats are supported:
//   - text  human-readable terminal output (default)
//   - json  the full document as indented JSON
//   - yaml  the same document as YAML
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*Document]. [WriteDocument]
// handles destination selection.
package output
