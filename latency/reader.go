package latency

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// readerBufferSize is the bufio buffer size used when reading a log.
const readerBufferSize = 8192

// Reader decodes a latency log as a lazy sequence of records in write
// order. It is single-use and single-threaded: once Next has returned a
// non-nil error the Reader is exhausted, and there is no way to rewind.
type Reader struct {
	br    *bufio.Reader
	count int
	err   error
}

// NewReader returns a Reader decoding records from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, readerBufferSize)}
}

// Next returns the next record from the log.
//
// It returns io.EOF when the stream ends exactly on a record boundary —
// the clean end of the log. If the stream ends inside a record, the error
// wraps ErrTruncatedRecord and carries the record number and byte counts.
// Every read is sized to exactly the declared record length into a fresh
// slice, so a truncated tail can never surface stale bytes from an
// earlier record.
//
// After any non-nil error, subsequent calls return the same error.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}

	n, err := r.br.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.err = io.EOF
		} else {
			r.err = fmt.Errorf("reading record %d length: %w", r.count+1, err)
		}
		return Record{}, r.err
	}

	body := make([]byte, int(n)+fixedFieldsSize)
	read, err := io.ReadFull(r.br, body)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			r.err = fmt.Errorf("record %d: got %d of %d body bytes: %w",
				r.count+1, read, len(body), ErrTruncatedRecord)
		} else {
			r.err = fmt.Errorf("reading record %d body: %w", r.count+1, err)
		}
		return Record{}, r.err
	}

	var rec Record
	rec.decodeBody(body, int(n))
	r.count++
	return rec, nil
}

// Count returns the number of complete records decoded so far.
func (r *Reader) Count() int {
	return r.count
}
