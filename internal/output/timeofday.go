// Package output renders the converter's user-facing surfaces: fixed-width
// CSV timestamps, the console percentile report, and the JSON summary.
package output

import "time"

// TimeOfDayFormatLength is the fixed character width of a formatted
// timestamp: HH:MM:SS.mmm.
const TimeOfDayFormatLength = 12

// TimeOfDayFormatter turns an epoch-milliseconds capture timestamp into a
// fixed-width time-of-day string. Implementations must be pure and
// deterministic; the decode stage calls them once per record.
type TimeOfDayFormatter interface {
	Format(epochMillis uint64) string
}

// UTCTimeOfDay formats timestamps as HH:MM:SS.mmm in UTC, always exactly
// TimeOfDayFormatLength characters.
type UTCTimeOfDay struct{}

func (UTCTimeOfDay) Format(epochMillis uint64) string {
	return time.UnixMilli(int64(epochMillis)).UTC().Format("15:04:05.000")
}
