package codec

import "fmt"

// Category names the fatal-error taxonomies the codec itself can raise
// (argument errors are the CLI's concern, via the usage library — see
// cmd/transplant). Every error this package returns is wrapped in an
// *Error carrying one of these, so a caller (or a test) can distinguish
// "the stream is malformed" from "the filesystem said no" without
// string-matching.
type Category string

const (
	CategoryPathBuffer Category = "path_buffer"
	CategoryFraming    Category = "framing"
	CategoryStructural Category = "structural"
	CategoryFilesystem Category = "filesystem"
	CategoryIO         Category = "io"
)

// Error wraps a lower-level cause with the taxonomy category it falls
// under.
type Error struct {
	Category Category
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func wrapf(cat Category, format string, args ...interface{}) error {
	return &Error{Category: cat, Err: fmt.Errorf(format, args...)}
}
