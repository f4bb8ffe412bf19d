package deskkit

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrTargetExists    = errors.New("target exists")
	ErrInvalidSelector = errors.New("invalid session selector")
	ErrDirectoryGone   = errors.New("session directory no longer exists")
	ErrPersistence     = errors.New("rename history not persisted")
	ErrNotStarted      = errors.New("timer was not started")
	ErrInvalidConfig   = errors.New("invalid configuration")
)
