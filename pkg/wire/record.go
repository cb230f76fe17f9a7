// Package wire implements the transplant record framing format: the
// 16-byte header that opens every record on the wire, and the payload
// layout for the two record kinds that carry one (DIRECTORY_ENTRY and
// FILE_DATA).
package wire

import (
	"fmt"

	"github.com/lianatorpey/transplant/pkg/ioshim"
)

// Magic is the 3-byte prefix that opens every record.
var Magic = [3]byte{0x0C, 0x0D, 0xED}

// HeaderSize is the fixed size, in bytes, of a record header (magic +
// type + depth + size).
const HeaderSize = 16

// RecordType identifies the kind of record a header introduces. It is a
// closed set; ReadHeader rejects any byte outside this range.
type RecordType uint8

const (
	// StartOfTransmission opens a stream. Depth 0, no payload.
	StartOfTransmission RecordType = 0
	// EndOfTransmission closes a stream. Depth 0, no payload.
	EndOfTransmission RecordType = 1
	// StartOfDirectory opens a directory-bracket pair. Depth >= 1, no payload.
	StartOfDirectory RecordType = 2
	// EndOfDirectory closes a directory-bracket pair. Depth >= 1, no payload.
	EndOfDirectory RecordType = 3
	// DirectoryEntry describes one child of the enclosing directory.
	// Depth >= 1; payload is mode + size + name.
	DirectoryEntry RecordType = 4
	// FileData carries the raw bytes of a regular file. Depth >= 1.
	FileData RecordType = 5
)

// String renders a RecordType the way a diagnostic message would want it.
func (t RecordType) String() string {
	switch t {
	case StartOfTransmission:
		return "START_OF_TRANSMISSION"
	case EndOfTransmission:
		return "END_OF_TRANSMISSION"
	case StartOfDirectory:
		return "START_OF_DIRECTORY"
	case EndOfDirectory:
		return "END_OF_DIRECTORY"
	case DirectoryEntry:
		return "DIRECTORY_ENTRY"
	case FileData:
		return "FILE_DATA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the six defined record types.
func (t RecordType) Valid() bool {
	return t <= FileData
}

// Header is the fixed 16-byte framing unit that opens every record:
// a 3-byte magic prefix, a 1-byte type, a 4-byte big-endian depth, and
// an 8-byte big-endian total size (header + payload).
type Header struct {
	Type  RecordType
	Depth uint32
	Size  uint64
}

// BracketHeader builds the header for a payload-less bracket record
// (START/END_OF_TRANSMISSION, START/END_OF_DIRECTORY).
func BracketHeader(t RecordType, depth uint32) Header {
	return Header{Type: t, Depth: depth, Size: HeaderSize}
}

// ReadHeader reads and validates a 16-byte header from r: the magic
// prefix must match exactly, and the type byte must be one of the six
// defined record types. Depth and size are not validated against any
// expected value here; callers check those against the position in the
// decode state machine.
func ReadHeader(r *ioshim.Reader) (Header, error) {
	var h Header

	var magic [3]byte
	for i := range magic {
		b, err := r.ReadByte()
		if err != nil {
			return h, fmt.Errorf("reading magic byte %d: %w", i, err)
		}
		magic[i] = b
	}
	if magic != Magic {
		return h, fmt.Errorf("bad magic %02X %02X %02X, want %02X %02X %02X",
			magic[0], magic[1], magic[2], Magic[0], Magic[1], Magic[2])
	}

	typeByte, err := r.ReadByte()
	if err != nil {
		return h, fmt.Errorf("reading record type: %w", err)
	}
	h.Type = RecordType(typeByte)
	if !h.Type.Valid() {
		return h, fmt.Errorf("unknown record type %d", typeByte)
	}

	depth, err := r.ReadUint32BE()
	if err != nil {
		return h, fmt.Errorf("reading depth: %w", err)
	}
	h.Depth = depth

	size, err := r.ReadUint64BE()
	if err != nil {
		return h, fmt.Errorf("reading size: %w", err)
	}
	h.Size = size

	return h, nil
}

// WriteHeader emits a 16-byte header: magic, type, big-endian depth,
// big-endian size.
func WriteHeader(w *ioshim.Writer, h Header) error {
	if err := w.WriteBytes(Magic[:]); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if err := w.WriteByte(byte(h.Type)); err != nil {
		return fmt.Errorf("writing record type: %w", err)
	}
	if err := w.WriteUint32BE(h.Depth); err != nil {
		return fmt.Errorf("writing depth: %w", err)
	}
	if err := w.WriteUint64BE(h.Size); err != nil {
		return fmt.Errorf("writing size: %w", err)
	}
	return nil
}

// DirectoryEntryMetaSize is the fixed portion of a DIRECTORY_ENTRY
// payload that precedes the variable-length name: 4 bytes of mode plus
// 8 bytes of file size.
const DirectoryEntryMetaSize = 12

// DirectoryEntryPayload is the DIRECTORY_ENTRY payload: a POSIX mode
// word (file-type bits plus the 12 permission bits), the entry's
// OS-reported size (meaningful only for regular files; carried but
// ignored for directories), and the entry's base name as raw bytes.
type DirectoryEntryPayload struct {
	Mode     uint32
	FileSize uint64
	Name     []byte
}

// IsDir reports whether Mode's file-type bits mark a directory.
func (p DirectoryEntryPayload) IsDir() bool {
	return p.Mode&ModeTypeMask == ModeDir
}

// IsRegular reports whether Mode's file-type bits mark a regular file.
func (p DirectoryEntryPayload) IsRegular() bool {
	return p.Mode&ModeTypeMask == ModeRegular
}

// Permissions returns the low 12 permission bits of Mode (rwx for
// user/group/other plus setuid/setgid/sticky).
func (p DirectoryEntryPayload) Permissions() uint32 {
	return p.Mode & ModePermMask
}

// POSIX file-type and permission bit masks. This format carries raw
// st_mode bits verbatim and does not translate them.
const (
	ModeTypeMask  = 0o170000
	ModeDir       = 0o040000
	ModeRegular   = 0o100000
	ModePermMask  = 0o007777 // rwx * 3 + setuid/setgid/sticky
	ModePermBasic = 0o000777 // the 9 bits actually honored on restore
)

// EntrySize computes the total record size (header + metadata + name)
// for a DIRECTORY_ENTRY payload with the given name length.
func EntrySize(nameLen int) uint64 {
	return HeaderSize + DirectoryEntryMetaSize + uint64(nameLen)
}

// WriteDirectoryEntry writes a complete DIRECTORY_ENTRY record: header
// followed by mode, file size, and name.
func WriteDirectoryEntry(w *ioshim.Writer, depth uint32, mode uint32, fileSize uint64, name []byte) error {
	size := EntrySize(len(name))
	if err := WriteHeader(w, Header{Type: DirectoryEntry, Depth: depth, Size: size}); err != nil {
		return err
	}
	if err := w.WriteUint32BE(mode); err != nil {
		return fmt.Errorf("writing mode: %w", err)
	}
	if err := w.WriteUint64BE(fileSize); err != nil {
		return fmt.Errorf("writing file size: %w", err)
	}
	if err := w.WriteBytes(name); err != nil {
		return fmt.Errorf("writing name: %w", err)
	}
	return nil
}

// ReadDirectoryEntryPayload reads the mode/size/name payload of a
// DIRECTORY_ENTRY record whose header has already been consumed. size
// is the header's declared total record size.
func ReadDirectoryEntryPayload(r *ioshim.Reader, size uint64) (DirectoryEntryPayload, error) {
	var p DirectoryEntryPayload

	if size < HeaderSize+DirectoryEntryMetaSize {
		return p, fmt.Errorf("DIRECTORY_ENTRY size %d too small for fixed metadata", size)
	}
	nameLen := size - HeaderSize - DirectoryEntryMetaSize
	if nameLen == 0 {
		return p, fmt.Errorf("DIRECTORY_ENTRY has zero-length name")
	}

	mode, err := r.ReadUint32BE()
	if err != nil {
		return p, fmt.Errorf("reading mode: %w", err)
	}
	p.Mode = mode

	fileSize, err := r.ReadUint64BE()
	if err != nil {
		return p, fmt.Errorf("reading file size: %w", err)
	}
	p.FileSize = fileSize

	name := make([]byte, nameLen)
	if err := r.ReadFull(name); err != nil {
		return p, fmt.Errorf("reading name (%d bytes): %w", nameLen, err)
	}
	p.Name = name

	return p, nil
}
