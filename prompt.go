package deskkit

import (
	"errors"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

type Choice struct {
	Label string
	Value string
}

type Prompter interface {
	Confirm(title, description string) (bool, error)
	Input(title, placeholder string, validate func(string) error) (string, error)
	Select(title string, choices []Choice) (string, error)
}

// IsInteractive reports whether stdin is a terminal we can prompt on.
func IsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type HuhPrompter struct{}

func (HuhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, mapAbort(err)
}

func (HuhPrompter) Input(title, placeholder string, validate func(string) error) (string, error) {
	var s string
	in := huh.NewInput().Title(title).Placeholder(placeholder).Value(&s)
	if validate != nil {
		in = in.Validate(validate)
	}
	err := in.Run()
	return s, mapAbort(err)
}

func (HuhPrompter) Select(title string, choices []Choice) (string, error) {
	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.Label, c.Value))
	}
	var v string
	err := huh.NewSelect[string]().Title(title).Options(opts...).Value(&v).Run()
	return v, mapAbort(err)
}

func mapAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func sessionNumber(count int) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n >= count {
			return errors.New("enter a session number from the list")
		}
		return nil
	}
}
