package deskkit

import "fmt"

type RenameOutcome int

const (
	OutcomeRenamed RenameOutcome = iota
	OutcomeNoFiles
	OutcomeNothingRenamed
)

func (o RenameOutcome) String() string {
	switch o {
	case OutcomeRenamed:
		return "renamed"
	case OutcomeNoFiles:
		return "no files"
	case OutcomeNothingRenamed:
		return "no files renamed"
	default:
		return "unknown"
	}
}

type Skip struct {
	OldName string
	NewName string
	Reason  error
}

type FileFailure struct {
	Name string
	Err  error
}

type RenameResult struct {
	Outcome   RenameOutcome
	Directory string
	Prefix    string
	Session   *Session
	Skipped   []Skip
	Failed    []FileFailure
	Persisted bool
}

func (r RenameResult) Renamed() int {
	if r.Session == nil {
		return 0
	}
	return len(r.Session.Operations)
}

const historyNotSaved = "Warning: the rename history could not be saved."

// Summary is a plain-text account of the result for dialogs and logs. The
// first line stands on its own.
func (r RenameResult) Summary() string {
	switch r.Outcome {
	case OutcomeNoFiles:
		return fmt.Sprintf("No files found in %s.", r.Directory)
	case OutcomeNothingRenamed:
		return fmt.Sprintf("No files were renamed (%d skipped, %d failed).", len(r.Skipped), len(r.Failed))
	}
	msg := fmt.Sprintf("Renamed %d files (%d skipped, %d failed).", r.Renamed(), len(r.Skipped), len(r.Failed))
	if !r.Persisted {
		msg += "\n" + historyNotSaved
	}
	return msg
}

type UndoStatus int

const (
	UndoComplete UndoStatus = iota
	UndoPartial
	UndoFailed
)

func (s UndoStatus) String() string {
	switch s {
	case UndoComplete:
		return "complete"
	case UndoPartial:
		return "partial"
	case UndoFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type OperationFailure struct {
	Operation Operation
	Err       error
}

type UndoResult struct {
	Index     int
	Session   Session
	Restored  []Operation
	Failed    []OperationFailure
	Persisted bool
}

func (r UndoResult) Status() UndoStatus {
	switch {
	case len(r.Failed) == 0:
		return UndoComplete
	case len(r.Restored) > 0:
		return UndoPartial
	default:
		return UndoFailed
	}
}

// Summary is a plain-text account of the result for dialogs and logs. The
// first line stands on its own.
func (r UndoResult) Summary() string {
	switch r.Status() {
	case UndoComplete:
		msg := fmt.Sprintf("Restored %d files.", len(r.Restored))
		if !r.Persisted {
			msg += "\n" + historyNotSaved
		}
		return msg
	case UndoPartial:
		return fmt.Sprintf("Restored %d files, %d failed. The session stays in the history.", len(r.Restored), len(r.Failed))
	default:
		return fmt.Sprintf("No files could be restored (%d failed).", len(r.Failed))
	}
}

type OrganizeResult struct {
	Directory string
	Outcome   RenameOutcome
	Moved     map[string][]string
	Skipped   []Skip
	Failed    []FileFailure
}

func (r OrganizeResult) Total() int {
	n := 0
	for _, files := range r.Moved {
		n += len(files)
	}
	return n
}
