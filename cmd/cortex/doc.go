// Cortex generates commit messages for staged git changes.
//
// It can stage the modified files selected by include and exclude globs,
// sends the staged diff to the commit-message service and offers to commit,
// or commit and push, with the message it returns. Settings come from flags,
// a .cortexrc file in the working directory and optional remote templates.
//
// Usage:
//
//	cortex commit-message                         # message for what is staged
//	cortex commit-message --stage-all-changes     # stage everything first
//	cortex commit-message --stage-all-changes --exclude '*.lock'
//	cortex commit-message --commit-and-push-staged
//	cortex config show --format yaml              # effective .cortexrc settings
//	cortex config validate
//
// The API token is read from CORTEX_GENERATE_COMMIT_MESSAGE_TOKEN.
package main
