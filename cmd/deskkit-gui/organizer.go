package main

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sokinpui/deskkit"
)

func newOrganizerTab(u *ui) fyne.CanvasObject {
	dirEntry := widget.NewEntry()
	dirEntry.SetPlaceHolder("Folder to organize")

	browse := widget.NewButtonWithIcon("Browse…", theme.FolderOpenIcon(), func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			dirEntry.SetText(uri.Path())
		}, u.window)
	})

	var organizeBtn *widget.Button
	organizeBtn = widget.NewButtonWithIcon("Organize Files", theme.ConfirmIcon(), func() {
		dir := strings.TrimSpace(dirEntry.Text)
		if dir == "" {
			dialog.ShowInformation("Missing input", "Please choose a folder.", u.window)
			return
		}
		organizeBtn.Disable()
		u.setStatus("Organizing %s...", dir)
		u.queue.Submit(deskkit.JobKey("organize", dir), func() (any, error) {
			return u.app.Organizer.Organize(dir)
		}, func(v any, err error, joined bool) {
			fyne.Do(organizeBtn.Enable)
			if joined {
				return
			}
			if err != nil {
				u.logf("Organize failed: %v", err)
				u.setStatus("Organize failed")
				fyne.Do(func() { dialog.ShowError(err, u.window) })
				return
			}
			res := v.(deskkit.OrganizeResult)
			msg := fmt.Sprintf("Organized %d files in %s by extension.", res.Total(), dir)
			if res.Outcome == deskkit.OutcomeNoFiles {
				msg = fmt.Sprintf("No files found in %s.", dir)
			}
			if n := len(res.Skipped) + len(res.Failed); n > 0 {
				msg += fmt.Sprintf(" %d files were left in place.", n)
			}
			u.logf("%s", msg)
			u.setStatus("%s", msg)
			fyne.Do(func() { dialog.ShowInformation("File organizer", msg, u.window) })
		})
	})

	help := widget.NewLabel("Moves every file into a sub-folder named after its extension " +
		"(files without one go to " + deskkit.NoExtensionFolder + "). Existing files are never overwritten.")
	help.Wrapping = fyne.TextWrapWord

	return container.NewVBox(
		widget.NewLabelWithStyle("Intelligent File Organizer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, browse, dirEntry))),
		organizeBtn,
		help,
	)
}
