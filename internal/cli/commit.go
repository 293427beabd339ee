package cli

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/cortex/internal/api"
	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/generate"
	"github.com/dshills/cortex/internal/gitctx"
	"github.com/dshills/cortex/internal/ui"
)

// commit-message flags
var (
	flagStageAllChanges     bool
	flagInclude             []string
	flagExclude             []string
	flagHeader              string
	flagPreScript           string
	flagCommitStaged        bool
	flagCommitAndPushStaged bool
	flagTemplate            string
	flagWithTemplates       bool
	flagVerbose             bool
	flagRedactSecrets       bool
)

// newClipboard is replaced in tests.
var newClipboard = func() generate.Clipboard { return ui.Clipboard{} }

// flagAliases maps alternative spellings, after kebab-casing, to the
// canonical flag name.
var flagAliases = map[string]string{
	"stage-changes":   "stage-all-changes",
	"commit-and-push": "commit-and-push-staged",
	"template-name":   "template",
}

var commitMessageCmd = &cobra.Command{
	Use:     "commit-message",
	Aliases: []string{"generate-commit-message", "gcm"},
	Short:   "Generate a commit message for the staged changes",
	Long: `Generate a commit message for the staged changes.

Settings are merged from built-in defaults, the selected remote template,
the .cortexrc file in the working directory and the flags given here, in
that order of precedence. With --stage-all-changes the modified files
matching --include and not matching --exclude are staged first.`,
	Args: cobra.NoArgs,
	RunE: runCommitMessage,
}

func init() {
	addCommitMessageFlags(commitMessageCmd.Flags())
}

func addCommitMessageFlags(f *pflag.FlagSet) {
	f.BoolVar(&flagStageAllChanges, "stage-all-changes", false, "Stage modified files before generating")
	f.StringArrayVar(&flagInclude, "include", nil, "Only stage paths matching these globs (repeatable or comma-separated)")
	f.StringArrayVar(&flagExclude, "exclude", nil, "Never stage paths matching these globs (repeatable or comma-separated)")
	f.StringVar(&flagHeader, "header", "", "Text the generated message should start with")
	f.StringVar(&flagPreScript, "pre-script", "", "Shell command to run before reading the diff")
	f.BoolVar(&flagCommitStaged, "commit-staged", false, "Offer to commit with the generated message")
	f.BoolVar(&flagCommitAndPushStaged, "commit-and-push-staged", false, "Offer to commit and push with the generated message")
	f.StringVar(&flagTemplate, "template", "", "Name of the remote template to use")
	f.BoolVar(&flagWithTemplates, "with-templates", false, "Choose a remote template interactively")
	f.BoolVar(&flagVerbose, "verbose", false, "Print the resolved configuration and debug logs")
	f.BoolVar(&flagRedactSecrets, "redact-secrets", false, "Mask likely secrets in the diff before sending it")
	f.SetNormalizeFunc(normalizeFlagName)
}

// normalizeFlagName accepts camelCase spellings and the aliases in
// flagAliases.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	name = kebabCase(name)
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func kebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// invocationOptions builds the invocation layer from the flags the operator
// actually supplied.
func invocationOptions(fs *pflag.FlagSet) config.Options {
	var o config.Options
	setBool := func(name string, v bool, dst **bool) {
		if fs.Changed(name) {
			*dst = config.Bool(v)
		}
	}
	setString := func(name, v string, dst **string) {
		if fs.Changed(name) {
			*dst = config.String(v)
		}
	}

	setBool("stage-all-changes", flagStageAllChanges, &o.StageAllChanges)
	setBool("commit-staged", flagCommitStaged, &o.CommitStaged)
	setBool("commit-and-push-staged", flagCommitAndPushStaged, &o.CommitAndPushStaged)
	setBool("verbose", flagVerbose, &o.Verbose)
	setBool("with-templates", flagWithTemplates, &o.WithTemplates)
	setBool("redact-secrets", flagRedactSecrets, &o.RedactSecrets)
	setString("header", flagHeader, &o.Header)
	setString("pre-script", flagPreScript, &o.PreScript)
	setString("template", flagTemplate, &o.TemplateName)

	if fs.Changed("include") {
		o.Include = splitPatterns(flagInclude)
	}
	if fs.Changed("exclude") {
		o.Exclude = splitPatterns(flagExclude)
	}
	return o
}

func splitPatterns(values []string) config.Patterns {
	var out config.Patterns
	for _, v := range values {
		out = append(out, splitComma(v)...)
	}
	return out
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func runCommitMessage(cmd *cobra.Command, args []string) error {
	dir, err := resolveWorkDir()
	if err != nil {
		return err
	}
	invocation := invocationOptions(cmd.Flags())
	level := newLevel(invocation.Verbose != nil && *invocation.Verbose)
	logger := setupLogger(cmd.ErrOrStderr(), level)

	env, err := config.LoadEnvironment(filepath.Join(dir, ".env"))
	if err != nil {
		return err
	}

	client := api.NewClient(env.Hostname, env.Token, logger)
	printer := ui.NewPrinter(cmd.OutOrStdout())
	prompter := ui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

	wf := &generate.Workflow{
		Env:     env,
		Repo:    gitctx.NewExecRepository(dir),
		WorkDir: dir,
		Resolver: &config.Resolver{
			ConfigPath: filepath.Join(dir, config.FileName),
			Templates:  client,
			Prompter:   prompter,
			Reporter:   printer,
			Logger:     logger,
		},
		API:       client,
		Printer:   printer,
		Confirmer: prompter,
		Clipboard: newClipboard(),
		RunScript: generate.ShellRunner(dir, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Logger:    logger,
		LogLevel:  level,
	}
	_, err = wf.Run(cmd.Context(), invocation)
	return err
}
