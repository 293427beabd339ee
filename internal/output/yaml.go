package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter outputs the document as YAML.
type YAMLWriter struct{}

func (y *YAMLWriter) Write(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing YAML: %w", err)
	}
	return enc.Close()
}
