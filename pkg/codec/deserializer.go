package codec

import (
	"io"

	"github.com/lianatorpey/transplant/pkg/ioshim"
	"github.com/lianatorpey/transplant/pkg/wire"
)

// Deserialize reads a stream produced by Serialize from r and
// reconstructs it under opts.BasePath, which must already exist.
func Deserialize(r io.Reader, opts ...Option) error {
	o := resolveOptions(opts...)
	ctx, err := newContext(o)
	if err != nil {
		return err
	}

	br := ioshim.NewReader(r)

	if err := readBracket(ctx, br, wire.StartOfTransmission, 0); err != nil {
		return err
	}

	if err := deserializeDirectory(ctx, br, 1); err != nil {
		return err
	}

	if err := readBracket(ctx, br, wire.EndOfTransmission, 0); err != nil {
		return err
	}

	return nil
}

// readBracket reads one header and requires it to be a payload-less
// bracket record of the given type, depth, and the fixed 16-byte size.
func readBracket(ctx *context, br *ioshim.Reader, want wire.RecordType, depth uint32) error {
	h, err := wire.ReadHeader(br)
	if err != nil {
		return ctx.errorf(CategoryFraming, "reading %s(%d): %w", want, depth, err)
	}
	if h.Type != want {
		return ctx.errorf(CategoryStructural, "expected %s at depth %d, got %s", want, depth, h.Type)
	}
	if h.Depth != depth {
		return ctx.errorf(CategoryFraming, "%s: expected depth %d, got %d", want, depth, h.Depth)
	}
	if h.Size != wire.HeaderSize {
		return ctx.errorf(CategoryFraming, "%s: expected size %d, got %d", want, uint64(wire.HeaderSize), h.Size)
	}
	return nil
}

// deserializeDirectory consumes a START_OF_DIRECTORY(depth) ...
// END_OF_DIRECTORY(depth) bracket pair and, between them, zero or more
// DIRECTORY_ENTRY groups, materializing each into ctx.path's current
// directory. The opening bracket is consumed here (by the callee), not
// by the caller, so a nested directory's bracket pair is fully owned by
// its own recursive call.
func deserializeDirectory(ctx *context, br *ioshim.Reader, depth uint32) error {
	if err := readBracket(ctx, br, wire.StartOfDirectory, depth); err != nil {
		return err
	}

	ctx.opts.Logger.Trace("entering directory", "path", ctx.path.String(), "depth", depth)

	for {
		h, err := wire.ReadHeader(br)
		if err != nil {
			return ctx.errorf(CategoryFraming, "reading record at depth %d: %w", depth, err)
		}
		if h.Depth != depth {
			return ctx.errorf(CategoryFraming, "expected depth %d, got %d for %s", depth, h.Depth, h.Type)
		}

		switch h.Type {
		case wire.EndOfDirectory:
			if h.Size != wire.HeaderSize {
				return ctx.errorf(CategoryFraming, "END_OF_DIRECTORY: expected size %d, got %d", uint64(wire.HeaderSize), h.Size)
			}
			return nil

		case wire.DirectoryEntry:
			if err := deserializeEntry(ctx, br, depth, h.Size); err != nil {
				return err
			}

		default:
			return ctx.errorf(CategoryStructural, "unexpected %s at depth %d inside directory", h.Type, depth)
		}
	}
}

// deserializeEntry reads one DIRECTORY_ENTRY payload and materializes
// the directory or file it describes, recursing for nested directories
// or consuming the following FILE_DATA record for regular files.
func deserializeEntry(ctx *context, br *ioshim.Reader, depth uint32, size uint64) error {
	payload, err := wire.ReadDirectoryEntryPayload(br, size)
	if err != nil {
		return ctx.errorf(CategoryFraming, "reading DIRECTORY_ENTRY payload at depth %d: %w", depth, err)
	}

	if err := ctx.push(string(payload.Name)); err != nil {
		return err
	}
	path := ctx.path.String()
	ctx.opts.Logger.Trace("restoring entry", "path", path, "depth", depth,
		"mode", payload.Mode, "permissions", payload.Permissions())

	switch {
	case payload.IsDir():
		if err := materializeDirectory(ctx, path, payload); err != nil {
			return err
		}
		ctx.opts.report(ProgressEvent{Path: path, Dir: true})
		if err := deserializeDirectory(ctx, br, depth+1); err != nil {
			return err
		}
		return ctx.pop()

	case payload.IsRegular():
		written, err := deserializeFile(ctx, br, depth, path)
		if err != nil {
			return err
		}
		if err := ctx.opts.FS.Chmod(path, payload.Mode&wire.ModePermBasic); err != nil {
			return ctx.errorf(CategoryFilesystem, "chmod %q: %w", path, err)
		}
		ctx.opts.report(ProgressEvent{Path: path, Size: written})
		return ctx.pop()

	default:
		return ctx.errorf(CategoryStructural, "entry %q has neither directory nor regular-file mode bits (mode %#o)", path, payload.Mode)
	}
}

// materializeDirectory handles the directory branch of a DIRECTORY_ENTRY:
// an existing target at path is reused only with clobber enabled; a
// missing target is created with 0o777 then chmod'd down to the
// entry's permission bits.
func materializeDirectory(ctx *context, path string, payload wire.DirectoryEntryPayload) error {
	exists, err := ctx.opts.FS.Exists(path)
	if err != nil {
		return ctx.errorf(CategoryFilesystem, "checking %q: %w", path, err)
	}

	if exists {
		info, err := ctx.opts.FS.Stat(path)
		if err != nil {
			return ctx.errorf(CategoryFilesystem, "stat %q: %w", path, err)
		}
		if info.Mode&wire.ModeTypeMask != wire.ModeDir {
			return ctx.errorf(CategoryFilesystem, "%q already exists and is not a directory", path)
		}
		if !ctx.opts.Clobber {
			return ctx.errorf(CategoryFilesystem, "%q already exists and clobber is not enabled", path)
		}
		return nil
	}

	if err := ctx.opts.FS.Mkdir(path, wire.ModePermBasic); err != nil {
		return ctx.errorf(CategoryFilesystem, "mkdir %q: %w", path, err)
	}
	if err := ctx.opts.FS.Chmod(path, payload.Mode&wire.ModePermBasic); err != nil {
		return ctx.errorf(CategoryFilesystem, "chmod %q: %w", path, err)
	}
	return nil
}

// deserializeFile restores one regular file's content: the target must
// not already exist unless clobber is enabled, then a single FILE_DATA
// record at the entry's own depth supplies the authoritative content
// length and bytes. It returns the number of content bytes written.
func deserializeFile(ctx *context, br *ioshim.Reader, depth uint32, path string) (uint64, error) {
	exists, err := ctx.opts.FS.Exists(path)
	if err != nil {
		return 0, ctx.errorf(CategoryFilesystem, "checking %q: %w", path, err)
	}
	if exists && !ctx.opts.Clobber {
		return 0, ctx.errorf(CategoryFilesystem, "%q already exists and clobber is not enabled", path)
	}

	h, err := wire.ReadHeader(br)
	if err != nil {
		return 0, ctx.errorf(CategoryFraming, "reading FILE_DATA header for %q: %w", path, err)
	}
	if h.Type != wire.FileData {
		return 0, ctx.errorf(CategoryStructural, "expected FILE_DATA for %q, got %s", path, h.Type)
	}
	if h.Depth != depth {
		return 0, ctx.errorf(CategoryFraming, "FILE_DATA for %q: expected depth %d, got %d", path, depth, h.Depth)
	}
	if h.Size < wire.HeaderSize {
		return 0, ctx.errorf(CategoryFraming, "FILE_DATA for %q: size %d smaller than header", path, h.Size)
	}
	contentSize := h.Size - wire.HeaderSize
	ctx.opts.Logger.Trace("reading file data", "path", path, "depth", depth, "size", contentSize)

	f, err := ctx.opts.FS.OpenWrite(path)
	if err != nil {
		return 0, ctx.errorf(CategoryFilesystem, "opening %q for writing: %w", path, err)
	}
	defer f.Close()

	n, err := io.CopyN(f, br, int64(contentSize))
	if err != nil {
		return uint64(n), ctx.errorf(CategoryIO, "writing %q: copied %d of %d bytes: %w", path, n, contentSize, err)
	}
	return contentSize, nil
}
