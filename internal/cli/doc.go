// Package cli wires together the Cobra command tree for the cortex binary.
//
// It defines the root command and its subcommands (commit-message, config,
// version), binds flags, sets up logging and signal handling, runs the
// generation workflow and maps its outcome to an exit code.
package cli
