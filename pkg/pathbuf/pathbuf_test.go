package pathbuf

import (
	"strings"
	"testing"
)

func TestNewAndString(t *testing.T) {
	b, err := New("/tmp/root")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.String() != "/tmp/root" {
		t.Errorf("expected %q, got %q", "/tmp/root", b.String())
	}
}

func TestNewRejectsOverlongName(t *testing.T) {
	long := strings.Repeat("a", MaxLen)
	if _, err := New(long); err == nil {
		t.Fatal("expected an error for an overlong name, got nil")
	}
}

func TestPushAppendsSeparatorAndComponent(t *testing.T) {
	b, err := New("/tmp/root")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Push("a"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if b.String() != "/tmp/root/a" {
		t.Errorf("expected %q, got %q", "/tmp/root/a", b.String())
	}
	if err := b.Push("b"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if b.String() != "/tmp/root/a/b" {
		t.Errorf("expected %q, got %q", "/tmp/root/a/b", b.String())
	}
}

func TestPushRejectsSlashInComponent(t *testing.T) {
	b, _ := New("/tmp")
	if err := b.Push("a/b"); err == nil {
		t.Fatal("expected an error for a component containing '/', got nil")
	}
}

func TestPushOntoEmptyBufferOmitsLeadingSeparator(t *testing.T) {
	b := &Buffer{}
	if err := b.Push("root"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if b.String() != "root" {
		t.Errorf("expected %q, got %q", "root", b.String())
	}
}

func TestPopRemovesLastComponent(t *testing.T) {
	b, _ := New("/tmp/root")
	b.Push("a")
	b.Push("b")

	if err := b.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if b.String() != "/tmp/root/a" {
		t.Errorf("expected %q, got %q", "/tmp/root/a", b.String())
	}

	if err := b.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if b.String() != "/tmp/root" {
		t.Errorf("expected %q, got %q", "/tmp/root", b.String())
	}
}

func TestPopWithNoSeparatorEmptiesBuffer(t *testing.T) {
	b := &Buffer{}
	b.Push("root")
	if err := b.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if b.String() != "" {
		t.Errorf("expected empty buffer, got %q", b.String())
	}
}

func TestPopOnEmptyBufferFails(t *testing.T) {
	b := &Buffer{}
	if err := b.Pop(); err == nil {
		t.Fatal("expected an error popping an empty buffer, got nil")
	}
}

func TestPushRejectsOverflow(t *testing.T) {
	b, _ := New(strings.Repeat("a", MaxLen-2))
	if err := b.Push("bb"); err == nil {
		t.Fatal("expected an error for a push that overflows capacity, got nil")
	}
}
