package codec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/lianatorpey/transplant/pkg/fsops"
	"github.com/lianatorpey/transplant/pkg/wire"
)

// fakeNode is one file or directory in an in-memory fsops.FS, keyed by
// its path under the fake root. This stands in for a real filesystem in
// tests that need deterministic enumeration order or exact reported
// sizes, neither of which a real directory reliably gives.
type fakeNode struct {
	dir      bool
	mode     uint32
	content  []byte
	children []string // ordered child names, for dirs
}

// fakeFS is a minimal in-memory fsops.FS sufficient for exercising the
// serializer and deserializer without touching a real filesystem.
type fakeFS struct {
	nodes map[string]*fakeNode
}

var _ fsops.FS = (*fakeFS)(nil)

func newFakeFS() *fakeFS {
	return &fakeFS{nodes: map[string]*fakeNode{
		".": {dir: true, mode: wire.ModeDir | 0o755},
	}}
}

func (f *fakeFS) addDir(path string, mode uint32) {
	f.nodes[path] = &fakeNode{dir: true, mode: wire.ModeDir | mode}
	f.link(path)
}

func (f *fakeFS) addFile(path string, mode uint32, content string) {
	f.nodes[path] = &fakeNode{mode: wire.ModeRegular | mode, content: []byte(content)}
	f.link(path)
}

// link records path as a child of its parent, in the order added.
func (f *fakeFS) link(path string) {
	i := strings.LastIndexByte(path, '/')
	parent := "."
	name := path
	if i >= 0 {
		parent = path[:i]
		name = path[i+1:]
	}
	p := f.nodes[parent]
	p.children = append(p.children, name)
}

func (f *fakeFS) ReadDir(path string) ([]string, error) {
	n, ok := f.nodes[path]
	if !ok || !n.dir {
		return nil, fmt.Errorf("fakefs: %q is not a directory", path)
	}
	return n.children, nil
}

func (f *fakeFS) Stat(path string) (fsops.Info, error) {
	n, ok := f.nodes[path]
	if !ok {
		return fsops.Info{}, fmt.Errorf("fakefs: %q does not exist", path)
	}
	size := uint64(len(n.content))
	return fsops.Info{Mode: n.mode, Size: size}, nil
}

func (f *fakeFS) Exists(path string) (bool, error) {
	_, ok := f.nodes[path]
	return ok, nil
}

func (f *fakeFS) Mkdir(path string, perm uint32) error {
	if _, ok := f.nodes[path]; ok {
		return fmt.Errorf("fakefs: %q already exists", path)
	}
	f.nodes[path] = &fakeNode{dir: true, mode: wire.ModeDir | perm}
	f.link(path)
	return nil
}

func (f *fakeFS) Chmod(path string, perm uint32) error {
	n, ok := f.nodes[path]
	if !ok {
		return fmt.Errorf("fakefs: %q does not exist", path)
	}
	n.mode = (n.mode &^ wire.ModePermBasic) | (perm & wire.ModePermBasic)
	return nil
}

func (f *fakeFS) OpenRead(path string) (io.ReadCloser, error) {
	n, ok := f.nodes[path]
	if !ok || n.dir {
		return nil, fmt.Errorf("fakefs: %q is not a regular file", path)
	}
	return io.NopCloser(bytes.NewReader(n.content)), nil
}

type fakeWriteCloser struct {
	*bytes.Buffer
	commit func([]byte)
}

func (w *fakeWriteCloser) Close() error {
	w.commit(w.Bytes())
	return nil
}

func (f *fakeFS) OpenWrite(path string) (io.WriteCloser, error) {
	if n, ok := f.nodes[path]; ok && n.dir {
		return nil, fmt.Errorf("fakefs: %q is a directory", path)
	}
	if _, ok := f.nodes[path]; !ok {
		f.nodes[path] = &fakeNode{mode: wire.ModeRegular | 0o644}
		f.link(path)
	}
	node := f.nodes[path]
	return &fakeWriteCloser{Buffer: &bytes.Buffer{}, commit: func(b []byte) {
		node.content = append([]byte(nil), b...)
	}}, nil
}
