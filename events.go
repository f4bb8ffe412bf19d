package deskkit

import "log/slog"

// Events receives per-file progress from the engine and the organizer.
// Implementations are called synchronously on the goroutine running the
// operation.
type Events interface {
	OnRenamed(op Operation)
	OnRestored(op Operation)
	OnSkipped(oldName, newName string, err error)
	OnError(name string, err error)
}

// ProgressUpdate reports how many items of a batch have been processed.
type ProgressUpdate func(current, total int)

type logEvents struct {
	logger *slog.Logger
}

// LogEvents writes every event to logger.
func LogEvents(logger *slog.Logger) Events {
	if logger == nil {
		logger = slog.Default()
	}
	return logEvents{logger: logger}
}

func (e logEvents) OnRenamed(op Operation) {
	e.logger.Info("renamed", "from", op.OldName, "to", op.NewName)
}

func (e logEvents) OnRestored(op Operation) {
	e.logger.Info("restored", "from", op.NewName, "to", op.OldName)
}

func (e logEvents) OnSkipped(oldName, newName string, err error) {
	e.logger.Info("skipped", "from", oldName, "to", newName, "reason", err)
}

func (e logEvents) OnError(name string, err error) {
	e.logger.Error("rename failed", "file", name, "error", err)
}

// EventFuncs adapts plain functions to Events. Nil fields are ignored.
type EventFuncs struct {
	Renamed  func(op Operation)
	Restored func(op Operation)
	Skipped  func(oldName, newName string, err error)
	Error    func(name string, err error)
}

func (f EventFuncs) OnRenamed(op Operation) {
	if f.Renamed != nil {
		f.Renamed(op)
	}
}

func (f EventFuncs) OnRestored(op Operation) {
	if f.Restored != nil {
		f.Restored(op)
	}
}

func (f EventFuncs) OnSkipped(oldName, newName string, err error) {
	if f.Skipped != nil {
		f.Skipped(oldName, newName, err)
	}
}

func (f EventFuncs) OnError(name string, err error) {
	if f.Error != nil {
		f.Error(name, err)
	}
}
