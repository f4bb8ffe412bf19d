package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/sokinpui/deskkit"
)

type renamerTab struct {
	u        *ui
	content  fyne.CanvasObject
	sessions []deskkit.SessionSummary
	selected int
	list     *widget.List
}

func newRenamerTab(u *ui) *renamerTab {
	t := &renamerTab{u: u, selected: -1}

	dirEntry := widget.NewEntry()
	dirEntry.SetPlaceHolder("Folder with files to rename")
	prefixEntry := widget.NewEntry()
	prefixEntry.SetPlaceHolder("Prefix, e.g. holiday")

	browse := widget.NewButtonWithIcon("Browse…", theme.FolderOpenIcon(), func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			dirEntry.SetText(uri.Path())
		}, u.window)
	})

	renameBtn := widget.NewButtonWithIcon("Rename Files", theme.ConfirmIcon(), func() {
		dir := strings.TrimSpace(dirEntry.Text)
		prefix := strings.TrimSpace(prefixEntry.Text)
		if dir == "" || prefix == "" {
			dialog.ShowInformation("Missing input", "Please choose a folder and enter a prefix.", u.window)
			return
		}
		t.rename(dir, prefix)
	})

	undoLast := widget.NewButtonWithIcon("Undo Last Rename", theme.ContentUndoIcon(), func() {
		t.undo(deskkit.MostRecent(), "last rename")
	})

	t.list = widget.NewList(
		func() int { return len(t.sessions) },
		func() fyne.CanvasObject {
			return widget.NewLabel("template session row with enough room")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			s := t.sessions[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("[%d] %s  %s  prefix %q  %d files",
				s.Index, humanize.Time(s.Timestamp), s.Directory, s.Prefix, s.Count))
		},
	)
	t.list.OnSelected = func(id widget.ListItemID) { t.selected = id }
	t.list.OnUnselected = func(widget.ListItemID) { t.selected = -1 }

	undoSelected := widget.NewButtonWithIcon("Undo Selected", theme.ContentUndoIcon(), func() {
		if t.selected < 0 || t.selected >= len(t.sessions) {
			dialog.ShowInformation("No session", "Select a session in the history first.", u.window)
			return
		}
		s := t.sessions[t.selected]
		msg := fmt.Sprintf("Restore %d files in\n%s\n(prefix %q)?", s.Count, s.Directory, s.Prefix)
		dialog.ShowConfirm("Undo session", msg, func(ok bool) {
			if !ok {
				return
			}
			// The list may be stale by now; the id follows the session.
			sel := deskkit.SelectIndex(s.Index)
			if s.ID != "" {
				sel = deskkit.SelectByID(s.ID)
			}
			t.undo(sel, fmt.Sprintf("session %d", s.Index))
		}, u.window)
	})

	clearBtn := widget.NewButtonWithIcon("Clear History", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Clear history",
			"Forget every rename session? Files keep their current names and this cannot be undone.",
			func(ok bool) {
				if ok {
					t.clear()
				}
			}, u.window)
	})

	refreshBtn := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), t.refreshUI)

	form := widget.NewForm(
		widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, browse, dirEntry)),
		widget.NewFormItem("Prefix", prefixEntry),
	)

	top := container.NewVBox(
		widget.NewLabelWithStyle("Batch File Renamer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewHBox(renameBtn, undoLast),
		widget.NewSeparator(),
		container.NewBorder(nil, nil,
			widget.NewLabelWithStyle("Rename History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			container.NewHBox(undoSelected, clearBtn, refreshBtn),
		),
	)

	t.content = container.NewBorder(top, nil, nil, nil, t.list)
	t.refreshUI()
	return t
}

// refreshUI reloads the history list. It reads the journal directly, which
// is safe next to the queue worker because saves replace the file whole.
func (t *renamerTab) refreshUI() {
	t.sessions = t.u.app.Engine.List()
	t.selected = -1
	t.list.UnselectAll()
	t.list.Refresh()
}

func (t *renamerTab) rename(dir, prefix string) {
	u := t.u
	u.setStatus("Renaming files in %s...", dir)
	u.queue.Submit(deskkit.JobKey("rename", dir, prefix), func() (any, error) {
		return u.app.Engine.Rename(dir, prefix)
	}, func(v any, err error, joined bool) {
		if joined {
			return
		}
		if err != nil {
			t.showError("Rename failed", err)
			return
		}
		msg := v.(deskkit.RenameResult).Summary()
		u.logf("%s", msg)
		u.setStatus("%s", firstLine(msg))
		fyne.Do(func() {
			t.refreshUI()
			dialog.ShowInformation("Batch rename", msg, u.window)
		})
	})
}

func (t *renamerTab) undo(sel deskkit.Selector, what string) {
	u := t.u
	u.setStatus("Undoing %s...", what)
	u.queue.Submit(deskkit.JobKey("undo", sel.String()), func() (any, error) {
		return u.app.Engine.Undo(sel)
	}, func(v any, err error, joined bool) {
		if joined {
			return
		}
		if err != nil {
			t.showError("Undo failed", err)
			return
		}
		msg := v.(deskkit.UndoResult).Summary()
		u.logf("%s", msg)
		u.setStatus("%s", firstLine(msg))
		fyne.Do(func() {
			t.refreshUI()
			dialog.ShowInformation("Undo", msg, u.window)
		})
	})
}

func (t *renamerTab) clear() {
	u := t.u
	u.queue.Submit(deskkit.JobKey("clear"), func() (any, error) {
		return nil, u.app.Engine.Clear()
	}, func(_ any, err error, joined bool) {
		if joined {
			return
		}
		if err != nil {
			t.showError("Clear failed", err)
			return
		}
		u.logf("Rename history cleared at %s", time.Now().Format(time.TimeOnly))
		u.setStatus("History cleared")
		fyne.Do(t.refreshUI)
	})
}

func (t *renamerTab) showError(title string, err error) {
	u := t.u
	msg := err.Error()
	switch {
	case errors.Is(err, deskkit.ErrInvalidSelector):
		msg = "No matching rename session: " + msg
	case errors.Is(err, deskkit.ErrDirectoryGone):
		msg = "The folder of this session no longer exists: " + msg
	}
	u.logf("%s: %s", title, msg)
	u.setStatus("%s", title)
	fyne.Do(func() {
		dialog.ShowError(errors.New(msg), u.window)
		t.refreshUI()
	})
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
