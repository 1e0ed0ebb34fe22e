// Package latency implements the binary latency log: a flat, append-only
// sequence of length-prefixed records written by a Recorder during capture
// and read back sequentially by a Reader for offline analysis.
//
// A log file is a pure concatenation of records with no header, footer,
// magic number, or checksum.
package latency

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// MaxCorrelationIDLength is the longest correlation ID that fits into a
// record's single length byte.
const MaxCorrelationIDLength = 255

const (
	// lenPrefixSize is the size of the length byte at the start of a record.
	lenPrefixSize = 1

	// fixedFieldsSize covers the capture timestamp and the latency value.
	fixedFieldsSize = 16
)

// ErrTruncatedRecord reports a record whose length byte promises more body
// bytes than remain in the stream. Records decoded before the truncation
// point are intact; the partial record itself is discarded, never emitted
// with stale or zero-filled bytes.
var ErrTruncatedRecord = errors.New("truncated record")

// Record is one latency measurement as stored on disk.
//
// The on-disk layout is fixed:
//
//	OFFSET  LENGTH  FIELD
//	0       1       N = len(CorrelationID), 0..255
//	1       N       CorrelationID bytes, verbatim
//	1+N     8       CaptureMillis, big-endian uint64
//	9+N     8       LatencyMicros, big-endian int64 (two's complement)
type Record struct {
	// CorrelationID tags the tracked event or transaction. May be empty.
	CorrelationID []byte

	// CaptureMillis is the wall-clock time the record was encoded,
	// in milliseconds since the Unix epoch.
	CaptureMillis uint64

	// LatencyMicros is the measured latency in microseconds. Negative
	// values are possible when the caller's two timestamps disagree and
	// are preserved verbatim.
	LatencyMicros int64
}

// EncodedSize returns the number of bytes the record occupies on disk.
func (r *Record) EncodedSize() int {
	return lenPrefixSize + len(r.CorrelationID) + fixedFieldsSize
}

// AppendEncode appends the record's binary frame to dst and returns the
// extended slice.
//
// It panics if the correlation ID does not fit into the single length
// byte. That is a programming error in the caller, checked before any
// byte is written, so a contract violation can never truncate an ID
// silently or leave a partial frame behind.
func (r *Record) AppendEncode(dst []byte) []byte {
	if len(r.CorrelationID) > MaxCorrelationIDLength {
		panic(fmt.Sprintf("latency: correlation ID length %d exceeds %d",
			len(r.CorrelationID), MaxCorrelationIDLength))
	}

	dst = append(dst, byte(len(r.CorrelationID)))
	dst = append(dst, r.CorrelationID...)
	dst = binary.BigEndian.AppendUint64(dst, r.CaptureMillis)
	dst = binary.BigEndian.AppendUint64(dst, uint64(r.LatencyMicros))
	return dst
}

// Decode parses one record from the front of buf and returns it together
// with the number of bytes consumed.
//
// An empty buf is reported as a zero-consumed ErrTruncatedRecord; callers
// that need to distinguish a clean end-of-log from a torn frame should use
// Reader, which sees the underlying stream boundaries.
func Decode(buf []byte) (Record, int, error) {
	if len(buf) < lenPrefixSize {
		return Record{}, 0, fmt.Errorf("decoding length byte: %w", ErrTruncatedRecord)
	}

	n := int(buf[0])
	total := lenPrefixSize + n + fixedFieldsSize
	if len(buf) < total {
		return Record{}, 0, fmt.Errorf("record body: got %d of %d bytes: %w",
			len(buf)-lenPrefixSize, n+fixedFieldsSize, ErrTruncatedRecord)
	}

	var rec Record
	rec.decodeBody(buf[lenPrefixSize:total], n)
	return rec, total, nil
}

// decodeBody fills the record from a body slice holding exactly the
// correlation ID and the two fixed-width fields.
func (r *Record) decodeBody(body []byte, n int) {
	r.CorrelationID = body[:n:n]
	r.CaptureMillis = binary.BigEndian.Uint64(body[n:])
	r.LatencyMicros = int64(binary.BigEndian.Uint64(body[n+8:]))
}
