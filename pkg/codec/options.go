// Package codec implements the serializer and deserializer state
// machines: the recursive tree-to-stream and stream-to-tree traversals
// built on pkg/wire's record framing and pkg/fsops's filesystem
// abstraction.
package codec

import (
	"github.com/lianatorpey/transplant/pkg/fsops"
	"github.com/lianatorpey/transplant/pkg/logging"
)

// ProgressEvent describes one DIRECTORY_ENTRY (a directory or a regular
// file) as it's processed; a file's FILE_DATA record raises no event of
// its own. Serialize and Deserialize each make a single
// streaming pass with no preliminary count, so this carries no
// total-file or total-byte count; a caller that wants a total (the
// CLI's spinner, say) tracks its own running sum across events.
type ProgressEvent struct {
	// Path is the path buffer's contents at the time of the event.
	Path string
	// Dir is true for a directory entry, false for a file entry.
	Dir bool
	// Size is the file's size in bytes; 0 for directories.
	Size uint64
}

// ProgressCallback is invoked once per entry processed, in either
// direction.
type ProgressCallback func(ProgressEvent)

// Options configures a Serialize or Deserialize call. The zero value is
// not valid; construct via resolveOptions so defaults are applied.
type Options struct {
	BasePath string
	Clobber  bool
	Logger   *logging.Logger
	Progress ProgressCallback
	FS       fsops.FS
}

// Option mutates an Options value via the functional-options pattern.
type Option func(*Options)

// WithBasePath sets the directory the tree is rooted at (serialize:
// the directory whose contents are captured; deserialize: the
// directory reconstruction targets). Defaults to ".".
func WithBasePath(path string) Option {
	return func(o *Options) { o.BasePath = path }
}

// WithClobber permits the deserializer to overwrite pre-existing
// directories and files at the target path. Defaults to false.
func WithClobber(clobber bool) Option {
	return func(o *Options) { o.Clobber = clobber }
}

// WithLogger sets the logger used for diagnostic output. Defaults to
// logging.DefaultLogger() (discards everything).
func WithLogger(l *logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithProgress sets a callback invoked once per entry processed.
func WithProgress(fn ProgressCallback) Option {
	return func(o *Options) { o.Progress = fn }
}

// WithFS overrides the filesystem implementation. Defaults to
// fsops.OS{}. Tests use this to substitute a fake filesystem.
func WithFS(fs fsops.FS) Option {
	return func(o *Options) { o.FS = fs }
}

func resolveOptions(opts ...Option) *Options {
	o := &Options{
		BasePath: ".",
		Logger:   logging.DefaultLogger(),
		FS:       fsops.OS{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) report(ev ProgressEvent) {
	if o.Progress != nil {
		o.Progress(ev)
	}
}
