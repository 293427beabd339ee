package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/cortex/internal/config"
	"github.com/dshills/cortex/internal/output"
	"github.com/dshills/cortex/internal/ui"
)

var (
	flagFormat string
	flagOut    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the cortex configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the settings resolved from defaults and " + config.FileName,
	Long: `Show the settings resolved from the built-in defaults and the ` + config.FileName + `
file of the working directory. Templates are not fetched and no prompts are
shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := output.GetWriter(flagFormat); err != nil {
			return fmt.Errorf("%w (supported: %s)", err, strings.Join(output.Formats, ", "))
		}
		doc, err := loadDocument(cmd)
		if err != nil {
			return err
		}
		if flagOut != "" {
			return output.WriteDocument(doc, flagFormat, flagOut)
		}
		w, _ := output.GetWriter(flagFormat)
		return w.Write(cmd.OutOrStdout(), doc)
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check " + config.FileName + " for unknown or mistyped options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveWorkDir()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, config.FileName)
		printer := ui.NewPrinter(cmd.OutOrStdout())
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			printer.Notice(fmt.Sprintf("No %s found in %s; defaults apply.", config.FileName, dir))
			return nil
		}
		if _, err := config.LoadFile(path, setupLogger(cmd.ErrOrStderr(), newLevel(false))); err != nil {
			return err
		}
		printer.Success(fmt.Sprintf("%s is valid.", path))
		return nil
	},
}

func init() {
	configShowCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json, yaml)")
	configShowCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func loadDocument(cmd *cobra.Command) (*output.Document, error) {
	dir, err := resolveWorkDir()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cmd.ErrOrStderr(), newLevel(false))

	path := filepath.Join(dir, config.FileName)
	persisted, err := config.LoadFile(path, logger)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)

	env, err := config.LoadEnvironment(filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}

	settings := config.Merge(config.Options{}, persisted, config.Options{})
	if persisted.Template != nil {
		settings.Template = *persisted.Template
	}

	return &output.Document{
		ConfigFile:  path,
		ConfigFound: statErr == nil,
		APIHost:     env.Hostname,
		TokenSet:    env.Token != "",
		Settings:    settings,
	}, nil
}
