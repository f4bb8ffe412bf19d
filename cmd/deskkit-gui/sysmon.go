package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/sokinpui/deskkit"
)

func newSysmonTab(ctx context.Context, u *ui) fyne.CanvasObject {
	cpu := widget.NewProgressBar()
	memory := widget.NewProgressBar()
	disk := widget.NewProgressBar()
	details := widget.NewLabel("Press Refresh to read system statistics.")
	details.Wrapping = fyne.TextWrapWord

	var refresh *widget.Button
	refresh = widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		refresh.Disable()
		u.setStatus("Reading system statistics...")
		go func() {
			snap, err := u.app.Monitor.Collect(ctx)
			fyne.Do(func() {
				refresh.Enable()
				if err != nil {
					details.SetText(fmt.Sprintf("Error getting system stats: %v", err))
					u.status.SetText("System statistics unavailable")
					return
				}
				cpu.SetValue(snap.CPUPercent / 100)
				memory.SetValue(snap.MemoryPercent / 100)
				disk.SetValue(snap.DiskPercent / 100)
				details.SetText(fmt.Sprintf(
					"Available memory: %s\nFree disk space on %s: %s\nUpdated %s",
					humanize.IBytes(snap.MemoryAvailable), snap.DiskPath, humanize.IBytes(snap.DiskFree),
					snap.TakenAt.Format(time.TimeOnly)))
				u.status.SetText("System statistics updated")
			})
		}()
	})

	return container.NewVBox(
		widget.NewLabelWithStyle("System Monitor", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("CPU", cpu),
			widget.NewFormItem("Memory", memory),
			widget.NewFormItem("Disk", disk),
		),
		details,
		refresh,
	)
}
