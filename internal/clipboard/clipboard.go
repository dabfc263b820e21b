package clipboard

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("no clipboard utility found (install wl-clipboard, xclip or xsel)")

type backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
	Unsupported() bool
}

type systemBackend struct{}

func (systemBackend) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemBackend) Unsupported() bool          { return clipboard.Unsupported }

var current backend = systemBackend{}

// ReadText reads text content from the system clipboard
func ReadText() (string, error) {
	if current.Unsupported() {
		return "", unsupported()
	}
	text, err := current.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// CopyText copies text to the system clipboard
func CopyText(text string) error {
	if current.Unsupported() {
		return unsupported()
	}
	if err := current.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

func unsupported() error {
	if runtime.GOOS == "linux" {
		return ErrUnsupported
	}
	return fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
