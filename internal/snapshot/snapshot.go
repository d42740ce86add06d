// Package snapshot keeps point-in-time copies of a rendered output
// directory so a bad render can be rolled back.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cameronsjo/beatjob/internal/fileutil"
)

const (
	// Prefix is the prefix for snapshot directory names.
	Prefix = "snapshot-"
	// DateFormat is the timestamp format used in snapshot names.
	DateFormat = "20060102-150405.000000000"
	// MaxSnapshots is the default number of snapshots to retain.
	MaxSnapshots = 20
)

// Info holds metadata about a snapshot.
type Info struct {
	Name      string
	Path      string
	Created   time.Time
	FileCount int
}

// Store manages the snapshots kept in one directory.
type Store struct {
	dir  string
	keep int
	now  func() time.Time
}

// New returns a Store rooted at dir that retains MaxSnapshots snapshots.
func New(dir string) *Store {
	return &Store{dir: dir, keep: MaxSnapshots, now: time.Now}
}

// WithRetention sets how many snapshots Cleanup keeps.
func (s *Store) WithRetention(keep int) *Store {
	if keep > 0 {
		s.keep = keep
	}
	return s
}

// Dir returns the directory snapshots are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Create copies src into a new snapshot and prunes old ones. Directories
// named in skip are not copied. It returns an empty name when src holds no
// files.
func (s *Store) Create(src string, skip ...string) (string, error) {
	name, err := s.create(src, skip)
	if err != nil || name == "" {
		return name, err
	}
	if err := s.Cleanup(); err != nil {
		return name, fmt.Errorf("snapshot %s created, pruning failed: %w", name, err)
	}
	return name, nil
}

func (s *Store) create(src string, skip []string) (string, error) {
	files, err := fileutil.ListFiles(src, skip...)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", src, err)
	}
	if len(files) == 0 {
		return "", nil
	}

	// The suffix keeps two snapshots taken in the same instant apart.
	name := Prefix + s.now().Format(DateFormat) + "-" + uuid.New().String()[:8]
	path := filepath.Join(s.dir, name)

	if err := fileutil.CopyDir(src, path, skip...); err != nil {
		if cleanupErr := os.RemoveAll(path); cleanupErr != nil {
			return "", fmt.Errorf("copy to snapshot: %w (cleanup also failed: %v)", err, cleanupErr)
		}
		return "", fmt.Errorf("copy to snapshot: %w", err)
	}
	return name, nil
}

// List returns snapshots sorted newest first.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshots directory: %w", err)
	}

	var snapshots []Info
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())

		created, ok := parseCreated(entry.Name())
		if !ok {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			created = info.ModTime()
		}

		files, _ := fileutil.ListFiles(path)
		snapshots = append(snapshots, Info{
			Name:      entry.Name(),
			Path:      path,
			Created:   created,
			FileCount: len(files),
		})
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Created.Equal(snapshots[j].Created) {
			return snapshots[i].Name > snapshots[j].Name
		}
		return snapshots[i].Created.After(snapshots[j].Created)
	})
	return snapshots, nil
}

// Restore makes dst match the snapshot: every snapshot file is written
// atomically and files absent from the snapshot are removed. Directories
// named in skip are left alone. The current content of dst is snapshotted
// first and its name is returned. Pruning runs only once the restore is done.
func (s *Store) Restore(name, dst string, skip ...string) (string, error) {
	path := filepath.Join(s.dir, name)
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		return "", fmt.Errorf("snapshot not found: %s", name)
	}

	backup, err := s.create(dst, skip)
	if err != nil {
		return "", fmt.Errorf("back up current output: %w", err)
	}

	want, err := fileutil.ListFiles(path)
	if err != nil {
		return backup, fmt.Errorf("list snapshot: %w", err)
	}
	keep := make(map[string]bool, len(want))
	for _, rel := range want {
		keep[rel] = true
		if err := fileutil.CopyFile(filepath.Join(path, filepath.FromSlash(rel)), filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
			return backup, fmt.Errorf("restore %s: %w", rel, err)
		}
	}

	have, err := fileutil.ListFiles(dst, skip...)
	if err != nil {
		return backup, fmt.Errorf("list output: %w", err)
	}
	for _, rel := range have {
		if keep[rel] {
			continue
		}
		if err := os.Remove(filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
			return backup, fmt.Errorf("remove %s: %w", rel, err)
		}
	}
	return backup, s.Cleanup()
}

// Cleanup removes snapshots beyond the retention limit, oldest first. It
// keeps going past individual failures and reports them together.
func (s *Store) Cleanup() error {
	snapshots, err := s.List()
	if err != nil {
		return err
	}
	if len(snapshots) <= s.keep {
		return nil
	}

	var errs []string
	for _, snap := range snapshots[s.keep:] {
		if err := os.RemoveAll(snap.Path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", snap.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to remove %d snapshot(s): %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// parseCreated reads the timestamp out of "snapshot-<time>-<id>".
func parseCreated(name string) (time.Time, bool) {
	stamp := strings.TrimPrefix(name, Prefix)
	if i := strings.LastIndex(stamp, "-"); i > 0 && len(stamp)-i-1 == 8 {
		stamp = stamp[:i]
	}
	created, err := time.ParseInLocation(DateFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return created, true
}
