// Package fsops is the filesystem abstraction the codec is built
// against: directory enumeration, mkdir, chmod, open-for-read,
// open-for-write-truncating, and exists-check, as an interface rather
// than direct os/syscall calls.
package fsops

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Info is the subset of filesystem metadata the codec needs about a
// directory entry: its raw POSIX mode (file-type bits plus permission
// bits, exactly as the wire format requires) and its OS-reported size.
type Info struct {
	Mode uint32
	Size uint64
}

// FS is the filesystem capability surface the codec depends on. OS is
// the production implementation; tests may substitute a fake.
type FS interface {
	// ReadDir returns the immediate child names of path in raw OS
	// enumeration order (not sorted), excluding "." and "..".
	ReadDir(path string) ([]string, error)
	// Stat returns raw POSIX mode/size metadata for path.
	Stat(path string) (Info, error)
	// Exists reports whether path refers to anything at all.
	Exists(path string) (bool, error)
	// Mkdir creates path as a directory with the given permission bits.
	Mkdir(path string, perm uint32) error
	// Chmod sets path's permission bits.
	Chmod(path string, perm uint32) error
	// OpenRead opens path for reading.
	OpenRead(path string) (io.ReadCloser, error)
	// OpenWrite opens path for writing, truncating any existing content.
	OpenWrite(path string) (io.WriteCloser, error)
}

// OS is the production FS implementation, backed by os and a raw
// unix.Stat syscall for byte-exact POSIX mode bits (os.FileMode's bit
// layout is not the POSIX one, so the wire format's mode word has to
// come from a live stat() rather than a FileInfo conversion).
type OS struct{}

var _ FS = OS{}

// ReadDir implements FS. It uses *os.File.ReadDir rather than the
// package-level os.ReadDir, because the package-level helper sorts its
// result by name and callers here need raw, OS-defined enumeration
// order. Go's directory reading already excludes "." and ".." at the
// syscall-wrapper level, so no additional filtering is needed here.
func (OS) ReadDir(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opendir %s: %w", path, err)
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// Stat implements FS using a raw stat(2) call so Mode carries the exact
// POSIX file-type and permission bits the wire format requires.
func (OS) Stat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Info{Mode: st.Mode, Size: uint64(st.Size)}, nil
}

// Exists implements FS.
func (OS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

// Mkdir implements FS.
func (OS) Mkdir(path string, perm uint32) error {
	if err := os.Mkdir(path, os.FileMode(perm)); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Chmod implements FS.
func (OS) Chmod(path string, perm uint32) error {
	if err := os.Chmod(path, os.FileMode(perm)); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// OpenRead implements FS.
func (OS) OpenRead(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// OpenWrite implements FS, truncating any existing content at path.
func (OS) OpenWrite(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
