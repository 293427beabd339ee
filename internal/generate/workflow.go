package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/dshills/cortex/internal/api"
	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/gitctx"
	"github.com/dshills/cortex/internal/redact"
	"github.com/dshills/cortex/internal/staging"
	"github.com/dshills/cortex/internal/ui"
)

// MessageAPI is the part of the remote service the workflow calls.
type MessageAPI interface {
	Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResponse, error)
	SaveCommitLink(ctx context.Context, link string, id api.MessageID) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Clipboard receives the generated message.
type Clipboard interface {
	Write(text string) error
}

// ScriptRunner runs the pre-script command line.
type ScriptRunner func(ctx context.Context, command string) error

// Result summarises a completed run.
type Result struct {
	Settings  config.ResolvedSettings
	Report    staging.Report
	Message   string
	MessageID api.MessageID
	Committed bool
	Pushed    bool
	Link      string
}

// Workflow wires the collaborators of one commit-message run.
type Workflow struct {
	Env       config.Environment
	Repo      gitctx.Repository
	WorkDir   string
	Resolver  *config.Resolver
	API       MessageAPI
	Printer   *ui.Printer
	Confirmer Confirmer
	Clipboard Clipboard
	RunScript ScriptRunner
	Logger    *slog.Logger

	// LogLevel, when set, is lowered to debug once the resolved settings
	// ask for verbose output.
	LogLevel *slog.LevelVar
}

// Run executes the command with the invocation options. Nothing-to-do
// outcomes are returned as *staging.NoOpError; a declined confirmation is
// not an error.
func (w *Workflow) Run(ctx context.Context, invocation config.Options) (Result, error) {
	var res Result
	logger := w.logger()

	if err := w.Env.RequireToken(); err != nil {
		return res, err
	}
	if !w.Repo.IsRepository(ctx) {
		return res, gitctx.ErrNotRepository
	}

	settings, err := w.Resolver.Resolve(ctx, invocation)
	if err != nil {
		return res, err
	}
	res.Settings = settings
	if settings.Verbose && w.LogLevel != nil {
		w.LogLevel.Set(slog.LevelDebug)
	}
	logger.Debug("resolved settings",
		"stageAllChanges", settings.StageAllChanges,
		"commitStaged", settings.CommitStaged,
		"commitAndPushStaged", settings.CommitAndPushStaged,
		"template", settings.Template.Name)

	if settings.PreScript != "" {
		if err := w.runPreScript(ctx, settings.PreScript); err != nil {
			return res, err
		}
	}

	assembler := staging.New(w.Repo, w.WorkDir, logger)
	report, payload, err := assembler.StageAndBuildDiff(ctx, settings)
	res.Report = report
	w.Printer.StagingReport(report)
	if err != nil {
		return res, err
	}

	header := settings.Header
	if settings.RedactSecrets {
		header = redact.Secrets(header)
	}
	req := api.GenerateRequest{Diff: payload.String(), Header: header}
	if !settings.Template.IsZero() {
		tmpl := settings.Template
		req.Template = &tmpl
	}
	resp, err := w.API.Generate(ctx, req)
	if err != nil {
		return res, err
	}
	res.Message, res.MessageID = resp.Message, resp.ID
	w.present(resp)

	switch {
	case settings.CommitAndPushStaged:
		err = w.commit(ctx, &res, true)
	case settings.CommitStaged:
		err = w.commit(ctx, &res, false)
	}
	return res, err
}

func (w *Workflow) present(resp api.GenerateResponse) {
	heading := "Generated commit message (copied to clipboard):"
	if w.Clipboard == nil {
		heading = "Generated commit message:"
	} else if err := w.Clipboard.Write(resp.Message); err != nil {
		w.logger().Warn("copying message to clipboard", "error", err)
		heading = "Generated commit message:"
	}
	w.Printer.Heading(heading)
	fmt.Fprintln(w.Printer.Writer())
	w.Printer.Plain(resp.Message)
	if resp.UsageMessage != "" {
		fmt.Fprintln(w.Printer.Writer())
		w.Printer.Notice(resp.UsageMessage)
	}
}

// ConfirmPrompt is the question asked before committing.
func ConfirmPrompt(push bool) string {
	action := "COMMIT"
	if push {
		action = "COMMIT AND PUSH"
	}
	return fmt.Sprintf("Do you want to %s the staged changes with this message? (y/yes): ", action)
}

func (w *Workflow) commit(ctx context.Context, res *Result, push bool) error {
	if w.Confirmer == nil {
		return errors.New("confirmation required but no prompter is available")
	}
	ok, err := w.Confirmer.Confirm(ctx, ConfirmPrompt(push))
	if err != nil {
		return err
	}
	if !ok {
		w.logger().Info("commit declined")
		return nil
	}

	if err := w.Repo.Commit(ctx, res.Message); err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	res.Committed = true
	w.Printer.Success("Changes committed successfully!")
	if !push {
		return nil
	}

	link, err := gitctx.ResolveCommitLink(ctx, w.Repo)
	if err != nil {
		w.logger().Warn("building commit link", "error", err)
	} else {
		res.Link = link
		if err := w.API.SaveCommitLink(ctx, link, res.MessageID); err != nil {
			w.Printer.Notice("Warning: Failed to save commit link: " + err.Error())
		}
	}

	branch, err := w.Repo.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf("pushing changes: %w", err)
	}
	if err := w.Repo.Push(ctx, gitctx.DefaultRemote, branch); err != nil {
		return fmt.Errorf("pushing changes: %w", err)
	}
	res.Pushed = true
	w.Printer.Success(fmt.Sprintf("Changes pushed to %s/%s successfully!", gitctx.DefaultRemote, branch))
	if res.Link != "" {
		w.Printer.Success("Commit link: " + res.Link)
	}
	return nil
}

func (w *Workflow) runPreScript(ctx context.Context, command string) error {
	w.Printer.Heading("Executing pre-script command: " + command)
	run := w.RunScript
	if run == nil {
		run = ShellRunner(w.WorkDir, os.Stdin, w.Printer.Writer(), os.Stderr)
	}
	if err := run(ctx, command); err != nil {
		return fmt.Errorf("executing pre-script: %w", err)
	}
	w.Printer.Success("Pre-script executed successfully!")
	return nil
}

// ShellRunner returns a ScriptRunner that runs commands through the platform
// shell in dir with the given standard streams.
func ShellRunner(dir string, stdin io.Reader, stdout, stderr io.Writer) ScriptRunner {
	return func(ctx context.Context, command string) error {
		name, flag := "sh", "-c"
		if runtime.GOOS == "windows" {
			name, flag = "cmd", "/C"
		}
		cmd := exec.CommandContext(ctx, name, flag, command)
		cmd.Dir = dir
		cmd.Stdin = stdin
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}
}

func (w *Workflow) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
