package ui

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("no clipboard utility available")

// Clipboard writes text to the system clipboard.
type Clipboard struct{}

// Write copies text to the clipboard. It fails when no clipboard utility is
// available, for example on a headless host.
func (Clipboard) Write(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
