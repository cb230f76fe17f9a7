package codec

import (
	"io"
	"testing"

	"github.com/lianatorpey/transplant/pkg/ioshim"
	"github.com/lianatorpey/transplant/pkg/wire"
)

func ioReaderFor(t *testing.T, r io.Reader) *ioshim.Reader {
	t.Helper()
	return ioshim.NewReader(r)
}

func writerFor(t *testing.T, w io.Writer) *ioshim.Writer {
	t.Helper()
	return ioshim.NewWriter(w)
}

func mustWriteHeader(t *testing.T, w *ioshim.Writer, h wire.Header) {
	t.Helper()
	if err := wire.WriteHeader(w, h); err != nil {
		t.Fatalf("WriteHeader(%+v): %v", h, err)
	}
}

func flushWriter(t *testing.T, w *ioshim.Writer) {
	t.Helper()
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
