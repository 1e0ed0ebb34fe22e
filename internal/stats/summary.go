package stats

import "sort"

// Summary holds the rank-based statistics for one analysis run.
//
// Every field is selected by integer-truncated indexing into the
// ascending-sorted samples: the median is the upper-middle element for
// even counts, and the percentile indexes are 99*N/100, 999*N/1000,
// 9999*N/10000 and 99999*N/100000. No rounding or interpolation anywhere.
// Reports produced by older converters of the same log format use these
// exact formulas, so they are kept verbatim.
type Summary struct {
	Count  int
	Min    int32
	Max    int32
	Median int32
	P99    int32
	P999   int32
	P9999  int32
	P99999 int32
}

// Summarize sorts samples ascending in place and selects the summary
// statistics. It returns ok=false for an empty slice: zero samples
// produce no report, never a divide-by-zero or an out-of-range index.
func Summarize(samples []int32) (Summary, bool) {
	n := len(samples)
	if n == 0 {
		return Summary{}, false
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	// Index arithmetic in int64 before truncation, so large sample
	// counts cannot overflow the numerator.
	at := func(num, den int64) int32 {
		return samples[int(num*int64(n)/den)]
	}

	return Summary{
		Count:  n,
		Min:    samples[0],
		Max:    samples[n-1],
		Median: samples[n/2],
		P99:    at(99, 100),
		P999:   at(999, 1000),
		P9999:  at(9999, 10000),
		P99999: at(99999, 100000),
	}, true
}
