package codec

import (
	"io"

	"github.com/lianatorpey/transplant/pkg/ioshim"
	"github.com/lianatorpey/transplant/pkg/wire"
)

// Serialize captures the tree rooted at opts.BasePath and writes it to
// w as a self-describing byte stream. The root directory itself is
// represented only by the outer bracket pair; its name is never
// emitted.
func Serialize(w io.Writer, opts ...Option) (err error) {
	o := resolveOptions(opts...)
	ctx, err := newContext(o)
	if err != nil {
		return err
	}

	bw := ioshim.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = ctx.errorf(CategoryIO, "flushing output: %w", ferr)
		}
	}()

	if werr := wire.WriteHeader(bw, wire.BracketHeader(wire.StartOfTransmission, 0)); werr != nil {
		return ctx.errorf(CategoryIO, "writing START_OF_TRANSMISSION: %w", werr)
	}

	if derr := serializeDirectory(ctx, bw, 1); derr != nil {
		return derr
	}

	if werr := wire.WriteHeader(bw, wire.BracketHeader(wire.EndOfTransmission, 0)); werr != nil {
		return ctx.errorf(CategoryIO, "writing END_OF_TRANSMISSION: %w", werr)
	}

	return nil
}

// serializeDirectory writes a START_OF_DIRECTORY/END_OF_DIRECTORY
// bracket pair at depth d, with one DIRECTORY_ENTRY group per child of
// ctx.path's current directory in between.
func serializeDirectory(ctx *context, w *ioshim.Writer, depth uint32) error {
	if err := wire.WriteHeader(w, wire.BracketHeader(wire.StartOfDirectory, depth)); err != nil {
		return ctx.errorf(CategoryIO, "writing START_OF_DIRECTORY(%d): %w", depth, err)
	}

	dirPath := ctx.path.String()
	ctx.opts.Logger.Trace("entering directory", "path", dirPath, "depth", depth)

	names, err := ctx.opts.FS.ReadDir(dirPath)
	if err != nil {
		return ctx.errorf(CategoryFilesystem, "reading directory %q: %w", dirPath, err)
	}

	for _, name := range names {
		if err := ctx.push(name); err != nil {
			return err
		}

		if err := serializeEntry(ctx, w, depth, name); err != nil {
			return err
		}

		if err := ctx.pop(); err != nil {
			return err
		}
	}

	if err := wire.WriteHeader(w, wire.BracketHeader(wire.EndOfDirectory, depth)); err != nil {
		return ctx.errorf(CategoryIO, "writing END_OF_DIRECTORY(%d): %w", depth, err)
	}
	return nil
}

// serializeEntry stats ctx.path's current location (having already had
// name pushed onto it) and writes the DIRECTORY_ENTRY record plus
// whatever follows it: a nested directory bracket pair, or a FILE_DATA
// record.
func serializeEntry(ctx *context, w *ioshim.Writer, depth uint32, name string) error {
	path := ctx.path.String()
	info, err := ctx.opts.FS.Stat(path)
	if err != nil {
		return ctx.errorf(CategoryFilesystem, "stat %q: %w", path, err)
	}

	mode := info.Mode & (wire.ModeTypeMask | wire.ModePermBasic)

	switch {
	case info.Mode&wire.ModeTypeMask == wire.ModeDir:
		if err := wire.WriteDirectoryEntry(w, depth, mode, info.Size, []byte(name)); err != nil {
			return ctx.errorf(CategoryIO, "writing DIRECTORY_ENTRY for %q: %w", path, err)
		}
		ctx.opts.report(ProgressEvent{Path: path, Dir: true})
		return serializeDirectory(ctx, w, depth+1)

	case info.Mode&wire.ModeTypeMask == wire.ModeRegular:
		if err := wire.WriteDirectoryEntry(w, depth, mode, info.Size, []byte(name)); err != nil {
			return ctx.errorf(CategoryIO, "writing DIRECTORY_ENTRY for %q: %w", path, err)
		}
		ctx.opts.report(ProgressEvent{Path: path, Size: info.Size})
		return serializeFile(ctx, w, depth, info.Size)

	default:
		return ctx.errorf(CategoryFilesystem, "%q is neither a directory nor a regular file (mode %#o)", path, info.Mode)
	}
}

// serializeFile copies exactly size bytes of ctx.path's current file
// into a single FILE_DATA record.
func serializeFile(ctx *context, w *ioshim.Writer, depth uint32, size uint64) error {
	path := ctx.path.String()
	ctx.opts.Logger.Trace("writing file data", "path", path, "depth", depth, "size", size)

	if err := wire.WriteHeader(w, wire.Header{Type: wire.FileData, Depth: depth, Size: wire.HeaderSize + size}); err != nil {
		return ctx.errorf(CategoryIO, "writing FILE_DATA header for %q: %w", path, err)
	}

	f, err := ctx.opts.FS.OpenRead(path)
	if err != nil {
		return ctx.errorf(CategoryFilesystem, "opening %q for reading: %w", path, err)
	}
	defer f.Close()

	n, err := io.CopyN(w, f, int64(size))
	if err != nil {
		return ctx.errorf(CategoryIO, "copying %d bytes from %q (copied %d): %w", size, path, n, err)
	}
	return nil
}
