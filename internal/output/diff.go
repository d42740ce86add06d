package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between the files under root and the planned
// files, including removal of stale files. It is empty when writing would
// change nothing.
func Diff(root string, files []File) (string, error) {
	var out strings.Builder
	for _, f := range files {
		existing, err := readExisting(root, f.Path)
		if err != nil {
			return "", err
		}
		if err := writeDiff(&out, f.Path, existing, string(f.Content), false); err != nil {
			return "", err
		}

		if f.Stale == "" {
			continue
		}
		stale, err := readExisting(root, f.Stale)
		if err != nil {
			return "", err
		}
		if stale != "" {
			if err := writeDiff(&out, f.Stale, stale, "", true); err != nil {
				return "", err
			}
		}
	}
	return out.String(), nil
}

func readExisting(root, rel string) (string, error) {
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rel, err)
	}
	return string(content), nil
}

func writeDiff(out *strings.Builder, rel, before, after string, removed bool) error {
	if before == after {
		return nil
	}
	from, to := "a/"+rel, "b/"+rel
	if before == "" {
		from = "/dev/null"
	}
	if removed {
		to = "/dev/null"
	}
	return difflib.WriteUnifiedDiff(out, difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	})
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}
