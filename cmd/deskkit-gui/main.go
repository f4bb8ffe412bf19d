package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/sokinpui/deskkit"
)

const maxLogLines = 500

// ui holds what the tabs share: the suite, the serial job queue and the
// activity log. Methods ending in UI must run on the fyne thread.
type ui struct {
	app    *deskkit.App
	queue  *deskkit.JobQueue
	window fyne.Window
	status *widget.Label

	logMu     sync.Mutex
	logLines  []string
	logLabel  *widget.Label
	logScroll *container.Scroll
}

func main() {
	configPath := flag.String("config", "", "config file (YAML)")
	journal := flag.String("journal", "", "rename history file")
	flag.Parse()

	cfg, err := deskkit.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *journal != "" {
		cfg.JournalPath = *journal
	}

	u := &ui{queue: deskkit.NewJobQueue()}
	defer u.queue.Close()

	suite, err := deskkit.NewApp(cfg, u.events(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer suite.Close()
	u.app = suite

	a := app.NewWithID("io.github.sokinpui.deskkit")
	w := a.NewWindow("🤖 Desk Kit")
	w.Resize(fyne.NewSize(860, 640))
	u.window = w

	u.status = widget.NewLabel("Ready")
	u.logLabel = widget.NewLabel("")
	u.logLabel.Wrapping = fyne.TextWrapWord
	u.logScroll = container.NewVScroll(u.logLabel)
	u.logScroll.SetMinSize(fyne.NewSize(0, 120))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renamer := newRenamerTab(u)
	tabs := container.NewAppTabs(
		container.NewTabItem("File Organizer", newOrganizerTab(u)),
		container.NewTabItem("Batch Renamer", renamer.content),
		container.NewTabItem("Time Tracker", newStopwatchTab(u)),
		container.NewTabItem("System Monitor", newSysmonTab(ctx, u)),
	)

	if err := deskkit.WatchJournal(ctx, suite.Store.Path(), suite.Logger, func() {
		fyne.Do(renamer.refreshUI)
	}); err != nil {
		suite.Logger.Warn("history will not refresh automatically", "error", err)
	}

	title := widget.NewLabelWithStyle("🤖 Desk Kit", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	bottom := container.NewVBox(
		widget.NewLabelWithStyle("Activity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.logScroll,
		widget.NewSeparator(),
		u.status,
	)
	w.SetContent(container.NewBorder(title, bottom, nil, nil, tabs))
	w.ShowAndRun()
}

// events forwards engine progress to the activity log. They arrive on the
// queue worker, so the log is updated through fyne.Do.
func (u *ui) events() deskkit.Events {
	return deskkit.EventFuncs{
		Renamed: func(op deskkit.Operation) {
			u.logf("Renamed: %s -> %s", op.OldName, op.NewName)
		},
		Restored: func(op deskkit.Operation) {
			u.logf("Restored: %s -> %s", op.NewName, op.OldName)
		},
		Skipped: func(oldName, newName string, err error) {
			u.logf("Skipped: %s -> %s (%v)", oldName, newName, err)
		},
		Error: func(name string, err error) {
			u.logf("Error: %s: %v", name, err)
		},
	}
}

func (u *ui) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > maxLogLines {
		u.logLines = u.logLines[len(u.logLines)-maxLogLines:]
	}
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()

	fyne.Do(func() {
		u.logLabel.SetText(text)
		u.logScroll.ScrollToBottom()
	})
}

func (u *ui) setStatus(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fyne.Do(func() { u.status.SetText(msg) })
}
