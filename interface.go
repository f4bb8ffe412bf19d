package deskkit

import (
	"fmt"
	"io"
)

// Rename is the one-call form of Engine.Rename for scripts embedding the
// package. The result groups file names by what happened to them.
func Rename(config Config, dir, prefix string) (map[string][]string, error) {
	app, err := NewApp(config, EventFuncs{}, io.Discard)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize deskkit: %w", err)
	}
	defer app.Close()

	res, err := app.Engine.Rename(dir, prefix)
	if err != nil {
		return nil, err
	}

	out := map[string][]string{
		"Renamed": {},
		"Skipped": {},
		"Failed":  {},
	}
	if res.Session != nil {
		for _, op := range res.Session.Operations {
			out["Renamed"] = append(out["Renamed"], op.OldName+" -> "+op.NewName)
		}
	}
	for _, s := range res.Skipped {
		out["Skipped"] = append(out["Skipped"], s.OldName)
	}
	for _, f := range res.Failed {
		out["Failed"] = append(out["Failed"], f.Name)
	}
	return out, nil
}

// UndoLast reverts the most recent session recorded under config.
func UndoLast(config Config) (UndoResult, error) {
	app, err := NewApp(config, EventFuncs{}, io.Discard)
	if err != nil {
		return UndoResult{}, fmt.Errorf("failed to initialize deskkit: %w", err)
	}
	defer app.Close()
	return app.Engine.Undo(MostRecent())
}
