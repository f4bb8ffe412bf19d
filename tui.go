package deskkit

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	renamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

type spinner struct {
	frames []string
	index  int
}

func newSpinner() spinner {
	return spinner{frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}}
}

func (s *spinner) tick() { s.index = (s.index + 1) % len(s.frames) }

func (s spinner) View() string { return s.frames[s.index] }

// Progress draws a spinner with a counter on w while a batch runs.
type Progress struct {
	w           io.Writer
	label       string
	noAnimation bool
	spinner     spinner
	mu          sync.Mutex
	cur, total  int
}

func NewProgress(w io.Writer, label string, noAnimation bool) *Progress {
	return &Progress{w: w, label: label, noAnimation: noAnimation, spinner: newSpinner()}
}

func (p *Progress) Update(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur, p.total = current, total
}

// Run calls fn with the spinner drawing in the background and clears the
// line afterwards.
func (p *Progress) Run(fn func() error) error {
	if p.noAnimation {
		return fn()
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				p.render()
			}
		}
	}()

	err := fn()
	close(done)
	<-stopped
	fmt.Fprint(p.w, "\r\x1b[K")
	return err
}

func (p *Progress) render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spinner.tick()
	fmt.Fprintf(p.w, "\r%s %s... %d/%d\x1b[K", p.spinner.View(), p.label, p.cur, p.total)
}

func renderList(b *strings.Builder, title string, style lipgloss.Style, list []string) {
	if len(list) == 0 {
		return
	}
	b.WriteString(style.Render(title) + "\n")
	for _, f := range list {
		fmt.Fprintf(b, "  %s\n", f)
	}
}

func FormatRenameResult(r RenameResult) string {
	var b strings.Builder
	switch r.Outcome {
	case OutcomeNoFiles:
		b.WriteString(headerStyle.Render(fmt.Sprintf("No files found in directory '%s'.", r.Directory)) + "\n")
		return b.String()
	case OutcomeNothingRenamed:
		b.WriteString(errorStyle.Render("No files were renamed.") + "\n\n")
	default:
		msg := fmt.Sprintf("Renamed %d files in %s with prefix '%s'.", r.Renamed(), r.Directory, r.Prefix)
		b.WriteString(headerStyle.Render(msg) + "\n\n")
	}

	var renamed []string
	if r.Session != nil {
		for _, op := range r.Session.Operations {
			renamed = append(renamed, fmt.Sprintf("%s -> %s", op.OldName, op.NewName))
		}
	}
	var skipped []string
	for _, s := range r.Skipped {
		skipped = append(skipped, fmt.Sprintf("%s -> %s (target exists)", s.OldName, s.NewName))
	}
	var failed []string
	for _, f := range r.Failed {
		failed = append(failed, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}

	renderList(&b, "Renamed:", renamedStyle, renamed)
	renderList(&b, "Skipped:", skippedStyle, skipped)
	renderList(&b, "Failed:", errorStyle, failed)

	if r.Session != nil && !r.Persisted {
		b.WriteString(errorStyle.Render("Warning: rename history could not be saved.") + "\n")
	}
	return b.String()
}

func FormatUndoResult(r UndoResult) string {
	var b strings.Builder
	switch r.Status() {
	case UndoComplete:
		b.WriteString(headerStyle.Render(fmt.Sprintf("Undid %d renames in %s.", len(r.Restored), r.Session.Directory)) + "\n\n")
	case UndoPartial:
		msg := fmt.Sprintf("Partially undone: %d restored, %d failed. The session stays in the history.",
			len(r.Restored), len(r.Failed))
		b.WriteString(skippedStyle.Render(msg) + "\n\n")
	default:
		b.WriteString(errorStyle.Render("Undo failed: no files were restored.") + "\n\n")
	}

	var restored []string
	for _, op := range r.Restored {
		restored = append(restored, fmt.Sprintf("%s -> %s", op.NewName, op.OldName))
	}
	var failed []string
	for _, f := range r.Failed {
		failed = append(failed, fmt.Sprintf("%s -> %s: %v", f.Operation.NewName, f.Operation.OldName, f.Err))
	}
	renderList(&b, "Restored:", successStyle, restored)
	renderList(&b, "Failed:", errorStyle, failed)

	if r.Status() == UndoComplete && !r.Persisted {
		b.WriteString(errorStyle.Render("Warning: rename history could not be saved.") + "\n")
	}
	return b.String()
}

func FormatHistory(summaries []SessionSummary, now time.Time) string {
	if len(summaries) == 0 {
		return dimStyle.Render("No rename history.") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Rename history") + "\n")
	for _, s := range summaries {
		when := fmt.Sprintf("%s (%s)", s.Timestamp.Format(time.DateTime), humanize.RelTime(s.Timestamp, now, "ago", "from now"))
		fmt.Fprintf(&b, "  %s %s\n", renamedStyle.Render(fmt.Sprintf("[%d]", s.Index)), when)
		fmt.Fprintf(&b, "      %s %s\n", dimStyle.Render("directory:"), s.Directory)
		fmt.Fprintf(&b, "      %s %s  %s %d\n", dimStyle.Render("prefix:"), s.Prefix, dimStyle.Render("files:"), s.Count)
	}
	return b.String()
}

func FormatOrganizeResult(r OrganizeResult) string {
	var b strings.Builder
	if r.Outcome == OutcomeNoFiles {
		b.WriteString(headerStyle.Render(fmt.Sprintf("No files found in directory '%s'.", r.Directory)) + "\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("Organized %d files in %s by extension.", r.Total(), r.Directory)) + "\n\n")
	for _, folder := range slices.Sorted(maps.Keys(r.Moved)) {
		renderList(&b, folder+"/", renamedStyle, r.Moved[folder])
	}

	var skipped []string
	for _, s := range r.Skipped {
		skipped = append(skipped, fmt.Sprintf("%s -> %s (%v)", s.OldName, s.NewName, s.Reason))
	}
	var failed []string
	for _, f := range r.Failed {
		failed = append(failed, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}
	renderList(&b, "Skipped:", skippedStyle, skipped)
	renderList(&b, "Failed:", errorStyle, failed)
	return b.String()
}

func FormatSnapshot(s Snapshot) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("System Statistics") + "\n")
	b.WriteString(dimStyle.Render(strings.Repeat("-", 30)) + "\n")
	fmt.Fprintf(&b, "CPU Usage: %.1f%%\n", s.CPUPercent)
	fmt.Fprintf(&b, "Memory Usage: %.1f%%\n", s.MemoryPercent)
	fmt.Fprintf(&b, "Disk Usage (%s): %.1f%%\n", s.DiskPath, s.DiskPercent)
	fmt.Fprintf(&b, "Available Memory: %s\n", formatGB(s.MemoryAvailable))
	fmt.Fprintf(&b, "Available Disk Space: %s\n", formatGB(s.DiskFree))
	return b.String()
}

func formatGB(n uint64) string {
	return fmt.Sprintf("%.2f GB", float64(n)/(1<<30))
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.2f seconds", s)
}
