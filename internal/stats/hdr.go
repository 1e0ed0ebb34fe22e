package stats

import (
	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMinMicros = 1
	histogramMaxMicros = 3600000000
	histogramSigFigs   = 3
)

// Histogram aggregates every decoded latency into an HDR histogram for
// the extended percentile table. Unlike the SampleBuffer it is unbounded
// in record count, at the cost of binning values to 3 significant
// figures instead of exact rank selection.
type Histogram struct {
	hist    *hdrhistogram.Histogram
	dropped int64
}

// HistogramStats is a point-in-time snapshot of the histogram.
type HistogramStats struct {
	Count   int64
	Dropped int64
	Min     int64
	Max     int64
	Mean    float64
	StdDev  float64
	P50     int64
	P90     int64
	P95     int64
	P99     int64
	P999    int64
}

// NewHistogram returns an empty latency histogram.
func NewHistogram() *Histogram {
	return &Histogram{
		hist: hdrhistogram.New(histogramMinMicros, histogramMaxMicros, histogramSigFigs),
	}
}

// Record adds one latency value, clamped into the histogram range.
// Negative latencies (inconsistent caller timestamps) carry no timing
// information, so they are counted as dropped rather than recorded.
func (h *Histogram) Record(v int64) {
	if v < 0 {
		h.dropped++
		return
	}
	if v < histogramMinMicros {
		v = histogramMinMicros
	}
	if v > histogramMaxMicros {
		v = histogramMaxMicros
	}
	// Cannot fail after clamping.
	_ = h.hist.RecordValue(v)
}

// Count returns the number of recorded values, excluding dropped ones.
func (h *Histogram) Count() int64 {
	return h.hist.TotalCount()
}

// Stats returns the current snapshot.
func (h *Histogram) Stats() HistogramStats {
	return HistogramStats{
		Count:   h.hist.TotalCount(),
		Dropped: h.dropped,
		Min:     h.hist.Min(),
		Max:     h.hist.Max(),
		Mean:    h.hist.Mean(),
		StdDev:  h.hist.StdDev(),
		P50:     h.hist.ValueAtQuantile(50),
		P90:     h.hist.ValueAtQuantile(90),
		P95:     h.hist.ValueAtQuantile(95),
		P99:     h.hist.ValueAtQuantile(99),
		P999:    h.hist.ValueAtQuantile(99.9),
	}
}
