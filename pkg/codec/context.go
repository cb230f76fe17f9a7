package codec

import (
	"github.com/lianatorpey/transplant/pkg/pathbuf"
)

// context carries the per-run state gathered into a single value
// instead of process-wide globals: the path buffer and the resolved
// options. One context is built per Serialize/Deserialize call and
// threaded through every recursive call; nothing here is shared across
// concurrent runs.
type context struct {
	opts *Options
	path *pathbuf.Buffer
}

func newContext(opts *Options) (*context, error) {
	p, err := pathbuf.New(opts.BasePath)
	if err != nil {
		wrapped := wrapf(CategoryPathBuffer, "initializing path buffer: %w", err)
		opts.Logger.Error(wrapped, "codec operation failed")
		return nil, wrapped
	}
	return &context{opts: opts, path: p}, nil
}

// errorf builds a *codec.Error from cat/format/args, reports it through
// the run's Logger, and returns it. Every error a serialize/deserialize
// call returns passes through here (or through newContext's equivalent,
// for the one error that can occur before a context exists) so the
// Logger.Error path is actually exercised and not just documented.
func (c *context) errorf(cat Category, format string, args ...interface{}) error {
	err := wrapf(cat, format, args...)
	c.opts.Logger.Error(err, "codec operation failed")
	return err
}

func (c *context) push(name string) error {
	if err := c.path.Push(name); err != nil {
		return c.errorf(CategoryPathBuffer, "pushing %q onto %q: %w", name, c.path.String(), err)
	}
	return nil
}

func (c *context) pop() error {
	if err := c.path.Pop(); err != nil {
		return c.errorf(CategoryPathBuffer, "popping %q: %w", c.path.String(), err)
	}
	return nil
}
