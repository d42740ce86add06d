package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cameronsjo/beatjob/internal/fileutil"
	"github.com/cameronsjo/beatjob/internal/lock"
	"github.com/cameronsjo/beatjob/internal/snapshot"
)

// StateDir holds the lock and snapshots inside an output root. It is never
// treated as rendered content.
const StateDir = ".beatjob"

// FileMode is the mode rendered files are written with.
const FileMode fs.FileMode = 0644

// Status is what a write did to one path.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusRemoved   Status = "removed"
)

// Change records the outcome for one path.
type Change struct {
	Path   string
	Status Status
}

// Result is the outcome of a write.
type Result struct {
	Changes []Change
	// Snapshot is the name of the snapshot taken before writing, if any.
	Snapshot string
}

// Changed reports whether any path was created, updated or removed.
func (r Result) Changed() bool {
	for _, c := range r.Changes {
		if c.Status != StatusUnchanged {
			return true
		}
	}
	return false
}

// Writer writes planned files under Root.
type Writer struct {
	Root string
	// Snapshot takes a snapshot of Root before anything is written.
	Snapshot bool
	Logger   *slog.Logger
}

// Snapshots returns the snapshot store of an output root.
func Snapshots(root string) *snapshot.Store {
	return snapshot.New(filepath.Join(root, StateDir, "snapshots"))
}

// Write writes every file while holding the output lock. Unchanged files
// are not touched.
func (w *Writer) Write(files []File) (Result, error) {
	log := w.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var result Result
	err := lock.With(filepath.Join(w.Root, StateDir), func() error {
		if w.Snapshot {
			name, err := Snapshots(w.Root).Create(w.Root, StateDir)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			result.Snapshot = name
			if name != "" {
				log.Info("created snapshot", "name", name)
			}
		}

		for _, f := range files {
			change, err := w.writeOne(f)
			if err != nil {
				return err
			}
			result.Changes = append(result.Changes, change)
			log.Debug("wrote document", "document", f.Document, "path", change.Path, "status", change.Status)

			if f.Stale == "" {
				continue
			}
			removed, err := w.removeStale(f.Stale)
			if err != nil {
				return err
			}
			if removed {
				result.Changes = append(result.Changes, Change{Path: f.Stale, Status: StatusRemoved})
				log.Debug("removed stale file", "document", f.Document, "path", f.Stale)
			}
		}
		return nil
	})
	return result, err
}

func (w *Writer) writeOne(f File) (Change, error) {
	target := filepath.Join(w.Root, filepath.FromSlash(f.Path))

	_, statErr := os.Stat(target)
	existed := statErr == nil

	same, err := fileutil.SameContent(target, f.Content)
	if err != nil {
		return Change{}, fmt.Errorf("read %s: %w", f.Path, err)
	}
	if same {
		return Change{Path: f.Path, Status: StatusUnchanged}, nil
	}

	if err := fileutil.WriteFile(target, f.Content, FileMode); err != nil {
		return Change{}, fmt.Errorf("write %s: %w", f.Path, err)
	}
	if existed {
		return Change{Path: f.Path, Status: StatusUpdated}, nil
	}
	return Change{Path: f.Path, Status: StatusCreated}, nil
}

func (w *Writer) removeStale(rel string) (bool, error) {
	err := os.Remove(filepath.Join(w.Root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %s: %w", rel, err)
	}
	return true, nil
}

// Restore replaces the files under root with a snapshot while holding the
// output lock. The files it replaces are kept as a new snapshot whose name
// is returned.
func Restore(root, name string) (string, error) {
	var backup string
	err := lock.With(filepath.Join(root, StateDir), func() error {
		var err error
		backup, err = Snapshots(root).Restore(name, root, StateDir)
		return err
	})
	return backup, err
}
