package wire

import (
	"bytes"
	"testing"

	"github.com/lianatorpey/transplant/pkg/ioshim"
)

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := ioshim.NewWriter(&buf)
	h := Header{Type: DirectoryEntry, Depth: 3, Size: 42}

	if err := WriteHeader(w, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if buf.Len() != HeaderSize {
		t.Fatalf("expected %d bytes, got %d", HeaderSize, buf.Len())
	}

	r := ioshim.NewReader(&buf)
	got, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != h {
		t.Errorf("round trip mismatch: want %+v, got %+v", h, got)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xFF, 0xFF, 0xFF, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 16})
	r := ioshim.NewReader(buf)
	if _, err := ReadHeader(r); err == nil {
		t.Fatal("expected an error for bad magic, got nil")
	}
}

func TestReadHeaderRejectsUnknownType(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(0xFE)
	buf.Write(make([]byte, 12))
	r := ioshim.NewReader(&buf)
	if _, err := ReadHeader(r); err == nil {
		t.Fatal("expected an error for unknown record type, got nil")
	}
}

func TestRecordTypeValid(t *testing.T) {
	for rt := StartOfTransmission; rt <= FileData; rt++ {
		if !rt.Valid() {
			t.Errorf("expected %d to be valid", rt)
		}
	}
	if RecordType(6).Valid() {
		t.Error("expected 6 to be invalid")
	}
}

func TestDirectoryEntryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := ioshim.NewWriter(&buf)

	name := []byte("hello.txt")
	if err := WriteDirectoryEntry(w, 2, ModeRegular|0o644, 11, name); err != nil {
		t.Fatalf("WriteDirectoryEntry: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := ioshim.NewReader(&buf)
	h, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != DirectoryEntry || h.Depth != 2 {
		t.Fatalf("unexpected header: %+v", h)
	}

	payload, err := ReadDirectoryEntryPayload(r, h.Size)
	if err != nil {
		t.Fatalf("ReadDirectoryEntryPayload: %v", err)
	}
	if !payload.IsRegular() || payload.IsDir() {
		t.Errorf("expected a regular-file payload, got mode %#o", payload.Mode)
	}
	if payload.FileSize != 11 {
		t.Errorf("expected file size 11, got %d", payload.FileSize)
	}
	if string(payload.Name) != "hello.txt" {
		t.Errorf("expected name %q, got %q", "hello.txt", payload.Name)
	}
}

func TestReadDirectoryEntryPayloadRejectsZeroLengthName(t *testing.T) {
	var buf bytes.Buffer
	w := ioshim.NewWriter(&buf)
	w.WriteUint32BE(ModeRegular | 0o644)
	w.WriteUint64BE(0)
	w.Flush()

	r := ioshim.NewReader(&buf)
	if _, err := ReadDirectoryEntryPayload(r, EntrySize(0)); err == nil {
		t.Fatal("expected an error for a zero-length name, got nil")
	}
}

func TestReadDirectoryEntryPayloadRejectsUndersizedRecord(t *testing.T) {
	var buf bytes.Buffer
	r := ioshim.NewReader(&buf)
	if _, err := ReadDirectoryEntryPayload(r, HeaderSize+4); err == nil {
		t.Fatal("expected an error for an undersized record, got nil")
	}
}

func TestEntrySize(t *testing.T) {
	if got := EntrySize(5); got != HeaderSize+DirectoryEntryMetaSize+5 {
		t.Errorf("EntrySize(5) = %d, want %d", got, HeaderSize+DirectoryEntryMetaSize+5)
	}
}
