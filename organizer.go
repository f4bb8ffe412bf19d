package deskkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const NoExtensionFolder = "no_extension"

// FolderFor names the folder a file is sorted into.
func FolderFor(name string) string {
	ext := strings.TrimPrefix(extOf(name), ".")
	if ext == "" {
		return NoExtensionFolder
	}
	return ext
}

type Organizer struct {
	events   Events
	metrics  *Metrics
	progress ProgressUpdate
}

func NewOrganizer(events Events, metrics *Metrics) *Organizer {
	if events == nil {
		events = LogEvents(nil)
	}
	return &Organizer{events: events, metrics: metrics}
}

func (o *Organizer) SetProgressCallback(cb ProgressUpdate) { o.progress = cb }

// Organize moves each regular file in dir into a sibling folder named after
// its extension. Existing files in a folder are never overwritten.
func (o *Organizer) Organize(dir string) (OrganizeResult, error) {
	res := OrganizeResult{Directory: dir, Moved: map[string][]string{}}
	dir, err := absDir(dir)
	if err != nil {
		return res, err
	}
	res.Directory = dir

	if err := requireDir(dir); err != nil {
		return res, err
	}

	files, err := listRegularFiles(dir)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		res.Outcome = OutcomeNoFiles
		return res, nil
	}

	for i, name := range files {
		folder := FolderFor(name)
		dest := filepath.Join(dir, folder, name)
		o.moveOne(&res, dir, name, folder, dest)
		if o.progress != nil {
			o.progress(i+1, len(files))
		}
	}

	if res.Total() == 0 {
		res.Outcome = OutcomeNothingRenamed
	}
	return res, nil
}

func (o *Organizer) moveOne(res *OrganizeResult, dir, name, folder, dest string) {
	rel := filepath.Join(folder, name)
	folderPath := filepath.Join(dir, folder)

	if pathExists(folderPath) && !isDir(folderPath) {
		err := fmt.Errorf("%w: %s is a file", ErrTargetExists, folder)
		res.Skipped = append(res.Skipped, Skip{OldName: name, NewName: rel, Reason: err})
		o.events.OnSkipped(name, rel, err)
		o.metrics.skipped()
		return
	}
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		res.Failed = append(res.Failed, FileFailure{Name: name, Err: err})
		o.events.OnError(name, err)
		o.metrics.failed("organize")
		return
	}
	if pathExists(dest) {
		err := fmt.Errorf("%w: %s", ErrTargetExists, rel)
		res.Skipped = append(res.Skipped, Skip{OldName: name, NewName: rel, Reason: err})
		o.events.OnSkipped(name, rel, err)
		o.metrics.skipped()
		return
	}
	if err := os.Rename(filepath.Join(dir, name), dest); err != nil {
		res.Failed = append(res.Failed, FileFailure{Name: name, Err: err})
		o.events.OnError(name, err)
		o.metrics.failed("organize")
		return
	}

	res.Moved[folder] = append(res.Moved[folder], name)
	o.events.OnRenamed(Operation{
		OldName: name,
		NewName: rel,
		OldPath: filepath.Join(dir, name),
		NewPath: dest,
	})
	o.metrics.moved()
}
