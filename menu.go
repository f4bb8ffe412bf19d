package deskkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	menuOrganize  = "organize"
	menuRename    = "rename"
	menuUndoLast  = "undo"
	menuHistory   = "history"
	menuStopwatch = "stopwatch"
	menuSysmon    = "sysmon"
	menuGUI       = "gui"
	menuExit      = "exit"
)

var menuChoices = []Choice{
	{"📁 Intelligent file organizer", menuOrganize},
	{"🔄 Batch file renamer", menuRename},
	{"↶ Undo last rename", menuUndoLast},
	{"📋 View rename history", menuHistory},
	{"⏱️ Time tracking", menuStopwatch},
	{"📊 System monitoring", menuSysmon},
	{"🖥️ Launch GUI", menuGUI},
	{"❌ Exit", menuExit},
}

// Menu is the interactive text front end. Every action reports errors on
// Out and returns to the menu.
type Menu struct {
	App       *App
	Prompt    Prompter
	Out       io.Writer
	Resolver  *PathResolver
	Stopwatch func() (time.Duration, error)
	LaunchGUI func() error
	Now       func() time.Time
}

func (m *Menu) Run(ctx context.Context) error {
	if m.Now == nil {
		m.Now = time.Now
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := m.Prompt.Select("Desk Kit", m.choices())
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		if choice == menuExit {
			fmt.Fprintln(m.Out, "👋 Goodbye!")
			return nil
		}
		if choice == menuGUI {
			if err := m.LaunchGUI(); err != nil {
				m.fail(err)
				continue
			}
			return nil
		}

		if err := m.dispatch(ctx, choice); err != nil {
			if errors.Is(err, ErrAborted) {
				continue
			}
			m.fail(err)
		}
	}
}

func (m *Menu) choices() []Choice {
	if m.LaunchGUI != nil {
		return menuChoices
	}
	out := make([]Choice, 0, len(menuChoices))
	for _, c := range menuChoices {
		if c.Value != menuGUI {
			out = append(out, c)
		}
	}
	return out
}

func (m *Menu) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case menuOrganize:
		return m.organize()
	case menuRename:
		return m.rename()
	case menuUndoLast:
		fmt.Fprintln(m.Out, "↶ Undoing last rename operation...")
		return m.undo(MostRecent())
	case menuHistory:
		return m.history()
	case menuStopwatch:
		d, err := m.Stopwatch()
		if err != nil {
			return err
		}
		fmt.Fprintf(m.Out, "Elapsed time: %s.\n", FormatElapsed(d))
		return nil
	case menuSysmon:
		snap, err := m.App.Monitor.Collect(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(m.Out, FormatSnapshot(snap))
		return nil
	default:
		return fmt.Errorf("invalid option %q", choice)
	}
}

func (m *Menu) askDir(title string) (string, error) {
	dir, err := m.Prompt.Input(title, "/path/to/folder", notEmpty)
	if err != nil {
		return "", err
	}
	dir = strings.TrimSpace(dir)
	if m.Resolver != nil {
		dir = m.Resolver.Resolve(dir)
	}
	return dir, nil
}

func (m *Menu) organize() error {
	dir, err := m.askDir("📁 Directory to organize")
	if err != nil {
		return err
	}
	res, err := m.App.Organizer.Organize(dir)
	if err != nil {
		return err
	}
	fmt.Fprint(m.Out, FormatOrganizeResult(res))
	return nil
}

func (m *Menu) rename() error {
	dir, err := m.askDir("📁 Directory to rename files in")
	if err != nil {
		return err
	}
	prefix, err := m.Prompt.Input("🏷️ Prefix for files", "holiday", notEmpty)
	if err != nil {
		return err
	}

	res, err := m.App.Engine.Rename(dir, strings.TrimSpace(prefix))
	if err != nil {
		return err
	}
	fmt.Fprint(m.Out, FormatRenameResult(res))
	if res.Session == nil {
		return nil
	}

	undo, err := m.Prompt.Confirm("Would you like to undo this operation?", "")
	if err != nil || !undo {
		return err
	}
	return m.undo(SelectByID(res.Session.ID))
}

func (m *Menu) undo(sel Selector) error {
	res, err := m.App.Engine.Undo(sel)
	if err != nil {
		return err
	}
	fmt.Fprint(m.Out, FormatUndoResult(res))
	return nil
}

func (m *Menu) history() error {
	list := m.App.Engine.List()
	fmt.Fprint(m.Out, FormatHistory(list, m.Now()))
	if len(list) == 0 {
		return nil
	}

	answer, err := m.Prompt.Input("Session number to undo (empty to skip)", "", sessionNumber(len(list)))
	if err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	idx, err := strconv.Atoi(answer)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSelector, answer)
	}
	if idx < 0 || idx >= len(list) {
		return fmt.Errorf("%w: session %d out of range", ErrInvalidSelector, idx)
	}

	target := list[idx]
	ok, err := m.Prompt.Confirm(
		fmt.Sprintf("Undo session %d?", idx),
		fmt.Sprintf("%d files in %s (prefix %q)", target.Count, target.Directory, target.Prefix),
	)
	if err != nil || !ok {
		return err
	}

	// The listing may be stale; prefer the session identity when there is one.
	sel := SelectIndex(idx)
	if target.ID != "" {
		sel = SelectByID(target.ID)
	}
	return m.undo(sel)
}

func (m *Menu) fail(err error) {
	fmt.Fprintln(m.Out, errorStyle.Render("❌ "+err.Error()))
}
