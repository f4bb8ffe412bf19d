package main

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sokinpui/deskkit"
)

func newStopwatchTab(u *ui) fyne.CanvasObject {
	timer := deskkit.NewStopwatch()

	display := widget.NewLabelWithStyle("0.00 seconds", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true})

	var stop chan struct{}
	var startBtn, stopBtn *widget.Button

	startBtn = widget.NewButtonWithIcon("Start Timer", theme.MediaPlayIcon(), func() {
		timer.Start()
		startBtn.Disable()
		stopBtn.Enable()
		u.setStatus("Timer started")

		stop = make(chan struct{})
		go func(stop <-chan struct{}) {
			tick := time.NewTicker(100 * time.Millisecond)
			defer tick.Stop()
			for {
				select {
				case <-stop:
					return
				case <-tick.C:
					text := deskkit.FormatElapsed(timer.Elapsed())
					fyne.Do(func() { display.SetText(text) })
				}
			}
		}(stop)
	})

	stopBtn = widget.NewButtonWithIcon("Stop Timer", theme.MediaStopIcon(), func() {
		d, err := timer.Stop()
		if err != nil {
			u.setStatus("%v", err)
			return
		}
		close(stop)
		display.SetText(deskkit.FormatElapsed(d))
		stopBtn.Disable()
		startBtn.Enable()
		u.logf("Elapsed time: %s.", deskkit.FormatElapsed(d))
		u.setStatus("Timer stopped")
	})
	stopBtn.Disable()

	return container.NewVBox(
		widget.NewLabelWithStyle("Time Tracker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		display,
		container.NewCenter(container.NewHBox(startBtn, stopBtn)),
	)
}
