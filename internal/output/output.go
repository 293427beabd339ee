package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/cortex/internal/config"
)

// Document is the effective configuration of a working directory as shown by
// the config commands.
type Document struct {
	ConfigFile  string                  `json:"configFile" yaml:"configFile"`
	ConfigFound bool                    `json:"configFound" yaml:"configFound"`
	APIHost     string                  `json:"apiHost" yaml:"apiHost"`
	TokenSet    bool                    `json:"tokenSet" yaml:"tokenSet"`
	Settings    config.ResolvedSettings `json:"settings" yaml:"settings"`
}

// Writer writes a document in a specific format.
type Writer interface {
	Write(w io.Writer, doc *Document) error
}

// Formats lists the supported format names.
var Formats = []string{"text", "json", "yaml"}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "yaml", "yml":
		return &YAMLWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteDocument writes doc to outPath, or to stdout when outPath is empty.
func WriteDocument(doc *Document, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	return writer.Write(w, doc)
}
