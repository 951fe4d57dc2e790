package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
)

// Confirmer asks on the terminal before a destructive action. AssumeYes
// skips the prompt, as the --yes flag does.
type Confirmer struct {
	AssumeYes bool
	// Ask overrides the huh prompt; tests set it.
	Ask func(prompt string) (bool, error)
}

var _ crud.Confirmer = Confirmer{}

func (c Confirmer) Confirm(prompt string) bool {
	if c.AssumeYes {
		return true
	}
	ask := c.Ask
	if ask == nil {
		ask = askHuh
	}
	ok, err := ask(prompt)
	if err != nil {
		// an aborted or failed prompt never deletes
		return false
	}
	return ok
}

func askHuh(prompt string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Delete").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

var (
	warnLine  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DA702C"))
	errorLine = lipgloss.NewStyle().Foreground(lipgloss.Color("#D14D41")).Bold(true)
)

// Notifier writes controller messages for the person at the terminal.
type Notifier struct {
	Out io.Writer
}

var _ crud.Notifier = Notifier{}

func (n Notifier) Notify(level slog.Level, msg string) {
	switch {
	case level >= slog.LevelError:
		fmt.Fprintln(n.Out, errorLine.Render("✗ "+msg))
	case level >= slog.LevelWarn:
		fmt.Fprintln(n.Out, warnLine.Render("! "+msg))
	default:
		fmt.Fprintln(n.Out, msg)
	}
}
