package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrNoTTY is returned when a prompt needs a terminal and none is available.
var ErrNoTTY = errors.New("no terminal available for confirmation (use --yes)")

// getTTY opens /dev/tty for direct terminal access (bypasses redirections)
func getTTY() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Confirm asks a yes/no question on the terminal.
func Confirm(title, description string) (bool, error) {
	tty, err := getTTY()
	if err != nil {
		return false, ErrNoTTY
	}
	defer tty.Close()

	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Apply").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithInput(tty).WithOutput(tty)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return confirmed, nil
}

// ShowError displays an error message
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", DefaultStyles().Error.Render("Error:"), msg)
}
