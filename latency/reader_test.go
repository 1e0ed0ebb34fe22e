package latency

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReader_EmptyLogIsCleanEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))

	_, err := r.Next()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("Next() on empty log = %v, want io.EOF", err)
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
}

func TestReader_CleanEOFOnRecordBoundary(t *testing.T) {
	rec := Record{CorrelationID: []byte("only"), CaptureMillis: 5, LatencyMicros: 9}
	log := rec.AppendEncode(nil)

	r := NewReader(bytes.NewReader(log))

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(got.CorrelationID) != "only" {
		t.Errorf("CorrelationID = %q, want %q", got.CorrelationID, "only")
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end of log = %v, want io.EOF", err)
	}
}

func TestReader_TruncatedTail(t *testing.T) {
	full := Record{CorrelationID: []byte("complete"), CaptureMillis: 11, LatencyMicros: 22}
	partial := Record{CorrelationID: []byte("torn-record"), CaptureMillis: 33, LatencyMicros: 44}

	log := full.AppendEncode(nil)
	frame := partial.AppendEncode(nil)

	// Every cut point strictly inside the second frame must surface as a
	// truncated record, with the first record still decoded intact.
	for cut := 1; cut < len(frame); cut++ {
		r := NewReader(bytes.NewReader(append(append([]byte{}, log...), frame[:cut]...)))

		got, err := r.Next()
		if err != nil {
			t.Fatalf("cut %d: Next() first record error = %v", cut, err)
		}
		if string(got.CorrelationID) != "complete" {
			t.Fatalf("cut %d: first record = %q, want %q", cut, got.CorrelationID, "complete")
		}

		_, err = r.Next()
		if !errors.Is(err, ErrTruncatedRecord) {
			t.Errorf("cut %d: Next() = %v, want ErrTruncatedRecord", cut, err)
		}
		if r.Count() != 1 {
			t.Errorf("cut %d: Count() = %d, want 1", cut, r.Count())
		}
	}
}

func TestReader_TruncationErrorIsDescriptive(t *testing.T) {
	rec := Record{CorrelationID: []byte("abcdef"), CaptureMillis: 1, LatencyMicros: 2}
	frame := rec.AppendEncode(nil)

	r := NewReader(bytes.NewReader(frame[:len(frame)-3]))
	_, err := r.Next()
	if err == nil {
		t.Fatal("Next() = nil error for truncated frame")
	}
	msg := err.Error()
	if !strings.Contains(msg, "record 1") || !strings.Contains(msg, "19") {
		t.Errorf("error %q should name the record number and the expected byte count", msg)
	}
}

func TestReader_ErrorIsSticky(t *testing.T) {
	rec := Record{CorrelationID: []byte("abc"), CaptureMillis: 1, LatencyMicros: 2}
	frame := rec.AppendEncode(nil)

	r := NewReader(bytes.NewReader(frame[:4]))

	_, first := r.Next()
	if !errors.Is(first, ErrTruncatedRecord) {
		t.Fatalf("Next() = %v, want ErrTruncatedRecord", first)
	}
	_, second := r.Next()
	if !errors.Is(second, ErrTruncatedRecord) {
		t.Errorf("second Next() = %v, want the same sticky error", second)
	}
}

type readerWithFailure struct {
	data []byte
	err  error
	off  int
}

func (r *readerWithFailure) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

func TestReader_IOErrorIsNotTruncation(t *testing.T) {
	rec := Record{CorrelationID: []byte("abc"), CaptureMillis: 1, LatencyMicros: 2}
	frame := rec.AppendEncode(nil)

	ioErr := errors.New("read: input/output error")
	r := NewReader(&readerWithFailure{data: frame[:4], err: ioErr})

	_, err := r.Next()
	if errors.Is(err, ErrTruncatedRecord) {
		t.Errorf("Next() = %v, want an I/O error, not ErrTruncatedRecord", err)
	}
	if !errors.Is(err, ioErr) {
		t.Errorf("Next() = %v, want wrapped %v", err, ioErr)
	}
}
