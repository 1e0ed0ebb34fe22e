// Package stats computes the summary statistics reported after a latency
// log conversion: exact rank-based percentiles over a bounded sample, and
// an optional HDR histogram over the full stream.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrSampleOverflow reports a latency value that cannot be collected into
// the signed 32-bit sample buffer. It aborts the analysis run; CSV lines
// already written are not retracted.
var ErrSampleOverflow = errors.New("latency value exceeds int32 range")

// SampleBuffer collects up to a caller-declared number of latency values
// for rank-based percentile reporting. It lives for one analysis run.
//
// Once the buffer is full, further values are ignored silently. While
// capacity remains, a value outside the signed 32-bit range returns
// ErrSampleOverflow instead of being clamped or skipped.
type SampleBuffer struct {
	values []int32
}

// NewSampleBuffer returns a buffer collecting at most capacity values.
func NewSampleBuffer(capacity int) *SampleBuffer {
	return &SampleBuffer{values: make([]int32, 0, capacity)}
}

// Add offers one latency value to the buffer.
func (b *SampleBuffer) Add(v int64) error {
	if len(b.values) == cap(b.values) {
		return nil
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return fmt.Errorf("%w: %d", ErrSampleOverflow, v)
	}
	b.values = append(b.values, int32(v))
	return nil
}

// Len returns the number of values collected so far.
func (b *SampleBuffer) Len() int {
	return len(b.values)
}

// Values returns the collected values. The slice is the buffer's own
// backing store; Summarize sorts it in place, so the buffer must not be
// reused afterwards.
func (b *SampleBuffer) Values() []int32 {
	return b.values
}
