// Package pathbuf implements a bounded, mutable path buffer supporting
// push/pop of single path components over an owned Go string. The
// capacity ceiling is kept as a wire-format portability guard, not
// because Go strings themselves need one.
package pathbuf

import (
	"fmt"
	"strings"
)

// MaxLen is the Buffer's capacity in bytes. One byte of it is reserved
// (as for a terminator), so a Buffer's contents are always strictly
// shorter than MaxLen. Streams built against a shorter or longer limit still round-trip so
// long as no single name pushed here would overflow it.
const MaxLen = 4096

// Buffer is a mutable path string supporting push/pop of single
// components. The zero value is an empty buffer.
type Buffer struct {
	s string
}

// New returns a Buffer initialized to name, equivalent to path_init.
func New(name string) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Init(name); err != nil {
		return nil, err
	}
	return b, nil
}

// Init resets the buffer's contents to name. It fails if len(name) is
// MaxLen or more.
func (b *Buffer) Init(name string) error {
	if len(name) >= MaxLen {
		return fmt.Errorf("pathbuf: init %q exceeds capacity %d", name, MaxLen)
	}
	b.s = name
	return nil
}

// String returns the buffer's current contents.
func (b *Buffer) String() string {
	return b.s
}

// Len returns the current length of the buffer's contents.
func (b *Buffer) Len() int {
	return len(b.s)
}

// Push appends a single path component. It fails if component contains
// '/', or if the result would reach MaxLen. A separating '/' is
// inserted unless the buffer is empty or already ends in '/'.
func (b *Buffer) Push(component string) error {
	if strings.ContainsRune(component, '/') {
		return fmt.Errorf("pathbuf: component %q contains '/'", component)
	}

	next := component
	if b.s != "" && !strings.HasSuffix(b.s, "/") {
		next = "/" + next
	}
	if len(b.s)+len(next) >= MaxLen {
		return fmt.Errorf("pathbuf: push %q exceeds capacity %d", component, MaxLen)
	}

	b.s += next
	return nil
}

// Pop removes the last path component: everything from (and including)
// the last '/', or the entire string if no '/' is present. It fails if
// the buffer is already empty.
func (b *Buffer) Pop() error {
	if b.s == "" {
		return fmt.Errorf("pathbuf: pop on empty buffer")
	}

	if i := strings.LastIndexByte(b.s, '/'); i >= 0 {
		b.s = b.s[:i]
	} else {
		b.s = ""
	}
	return nil
}
