// Package diff walks two real directory trees and reports where they
// disagree, for use by codec round-trip tests that write a
// reconstruction to a temp directory and need to confirm it matches the
// source byte-for-byte. Comparison is by relative path, type, restored
// permission bits, and a content hash for regular files.
package diff

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lianatorpey/transplant/pkg/wire"
)

// Entry describes one file or directory discovered while walking a tree,
// keyed by its path relative to the tree's root.
type Entry struct {
	RelPath string
	IsDir   bool
	Mode    uint32 // type bits + the 9 permission bits, per wire.ModePermBasic
	Size    uint64
	Hash    string // MD5 of file content; empty for directories
}

// Walk builds the set of Entry values describing root's contents,
// excluding root itself. Traversal order is not significant; callers
// compare by RelPath.
func Walk(root string) ([]Entry, error) {
	var entries []Entry

	err := filepath.Walk(root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		mode := uint32(fi.Mode().Perm()) & wire.ModePermBasic
		if fi.IsDir() {
			mode |= wire.ModeDir
			entries = append(entries, Entry{RelPath: rel, IsDir: true, Mode: mode})
			return nil
		}

		mode |= wire.ModeRegular
		hash, err := hashFile(p)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{RelPath: rel, Mode: mode, Size: uint64(fi.Size()), Hash: hash})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// Validate walks want and got and reports every path that's missing,
// extra, or mismatched (type, mode, or content) between them. A nil
// return means the two trees are identical in every respect this
// package checks.
func Validate(want, got string) error {
	wantEntries, err := Walk(want)
	if err != nil {
		return err
	}
	gotEntries, err := Walk(got)
	if err != nil {
		return err
	}

	wantMap := make(map[string]Entry, len(wantEntries))
	for _, e := range wantEntries {
		wantMap[e.RelPath] = e
	}
	gotMap := make(map[string]Entry, len(gotEntries))
	for _, e := range gotEntries {
		gotMap[e.RelPath] = e
	}

	var problems []string

	for path, w := range wantMap {
		g, found := gotMap[path]
		if !found {
			problems = append(problems, fmt.Sprintf("missing: %s", path))
			continue
		}
		if w.IsDir != g.IsDir {
			problems = append(problems, fmt.Sprintf("type mismatch: %s", path))
			continue
		}
		if w.Mode != g.Mode {
			problems = append(problems, fmt.Sprintf("mode mismatch: %s: want %#o got %#o", path, w.Mode, g.Mode))
		}
		if !w.IsDir && w.Hash != g.Hash {
			problems = append(problems, fmt.Sprintf("content mismatch: %s", path))
		}
	}

	for path := range gotMap {
		if _, found := wantMap[path]; !found {
			problems = append(problems, fmt.Sprintf("extra: %s", path))
		}
	}

	if len(problems) == 0 {
		return nil
	}

	sort.Strings(problems)
	return fmt.Errorf("tree mismatch:\n%s", strings.Join(problems, "\n"))
}
