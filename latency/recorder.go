package latency

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// fileWriterBufferSize is the buffer size used for file-backed recorders.
const fileWriterBufferSize = 8192

// Recorder appends latency records to a sink.
//
// The Recorder owns the sink exclusively: timestamp capture and the full
// frame write happen under one internal mutex, so concurrent callers can
// never interleave the bytes of two records. Nothing else may write to
// the sink while a Recorder is using it.
type Recorder struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte

	// now is swappable for tests.
	now func() time.Time
}

// NewRecorder returns a Recorder appending to w. The caller retains
// ownership of w and is responsible for flushing and closing it; see
// FileRecorder for the common buffered-file case.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, now: time.Now}
}

// RecordLatency appends one record tagged with correlationID, measuring
// outboundTimestamp-inboundTimestamp microseconds. The capture timestamp
// is the wall-clock time of the call, not either argument. A negative
// difference is recorded verbatim; the two timestamps are the caller's
// to keep consistent.
//
// It panics if len(correlationID) > MaxCorrelationIDLength — a contract
// violation by the caller, never a data error. A sink write error is
// returned as-is; the log may then hold a partial trailing frame, which
// the Reader reports as a truncated record.
func (r *Recorder) RecordLatency(correlationID []byte, inboundTimestamp, outboundTimestamp int64) error {
	if len(correlationID) > MaxCorrelationIDLength {
		panic(fmt.Sprintf("latency: correlation ID length %d exceeds %d",
			len(correlationID), MaxCorrelationIDLength))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		CorrelationID: correlationID,
		CaptureMillis: uint64(r.now().UnixMilli()),
		LatencyMicros: outboundTimestamp - inboundTimestamp,
	}
	r.buf = rec.AppendEncode(r.buf[:0])

	if _, err := r.w.Write(r.buf); err != nil {
		return fmt.Errorf("writing latency record: %w", err)
	}
	return nil
}

// FileRecorder is a Recorder over a buffered file sink.
type FileRecorder struct {
	*Recorder

	f  *os.File
	bw *bufio.Writer
}

// NewFileRecorder creates (or truncates) the log file at path and returns
// a Recorder appending to it through an 8 KiB buffer.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening latency log: %w", err)
	}

	bw := bufio.NewWriterSize(f, fileWriterBufferSize)
	return &FileRecorder{
		Recorder: NewRecorder(bw),
		f:        f,
		bw:       bw,
	}, nil
}

// Close flushes buffered records and closes the log file. The recorder
// must not be used after Close.
func (fr *FileRecorder) Close() error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	flushErr := fr.bw.Flush()
	closeErr := fr.f.Close()
	if flushErr != nil {
		return fmt.Errorf("flushing latency log: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing latency log: %w", closeErr)
	}
	return nil
}
