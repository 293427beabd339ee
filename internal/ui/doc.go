// Package ui is the operator-facing console: styled messages, the staging
// report, interactive prompts and the clipboard.
//
// Output goes through a [Printer], which styles text with lipgloss. Styles
// degrade to plain text when the writer is not a terminal, so the same code
// path is used by tests. Prompts use a bubbletea selector when stdin is a
// terminal and fall back to line-oriented reads otherwise.
package ui
