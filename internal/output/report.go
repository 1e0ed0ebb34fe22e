package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/wesleyorama2/latrec/internal/stats"
)

// ReportColors defines the colors used for the console report.
type ReportColors struct {
	Label *color.Color
	Value *color.Color
	Info  *color.Color
	Warn  *color.Color
}

// DefaultReportColors returns the default color scheme.
func DefaultReportColors() *ReportColors {
	return &ReportColors{
		Label: color.New(color.FgCyan, color.Bold),
		Value: color.New(color.FgWhite),
		Info:  color.New(color.FgGreen),
		Warn:  color.New(color.FgYellow, color.Bold),
	}
}

// NoReportColors returns a color scheme with all colors disabled.
func NoReportColors() *ReportColors {
	scheme := DefaultReportColors()
	scheme.Label.DisableColor()
	scheme.Value.DisableColor()
	scheme.Info.DisableColor()
	scheme.Warn.DisableColor()
	return scheme
}

// ReportWriter prints the percentile report to a console writer.
type ReportWriter struct {
	w      io.Writer
	colors *ReportColors
}

// NewReportWriter returns a report writer over w. Colors are used only
// when explicitly allowed and w is a terminal.
func NewReportWriter(w io.Writer, noColor bool) *ReportWriter {
	useColor := !noColor
	if useColor {
		f, ok := w.(*os.File)
		useColor = ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}

	colors := NoReportColors()
	if useColor {
		colors = DefaultReportColors()
	}
	return &ReportWriter{w: w, colors: colors}
}

// PrintSummary writes the rank-based report, one MIN/MAX/MEDIAN/percentile
// line per statistic. The line labels and values are a stable surface
// consumed by scripts; everything else about the rendering is cosmetic.
func (rw *ReportWriter) PrintSummary(s stats.Summary) {
	rw.colors.Info.Fprintf(rw.w, "Sorting %d results\n", s.Count)

	rw.line("MIN:", s.Min)
	rw.line("MAX:", s.Max)
	rw.line("MEDIAN:", s.Median)
	rw.line("99.000%:", s.P99)
	rw.line("99.900%:", s.P999)
	rw.line("99.990%:", s.P9999)
	rw.line("99.999%:", s.P99999)
}

func (rw *ReportWriter) line(label string, value int32) {
	rw.colors.Label.Fprint(rw.w, label)
	rw.colors.Value.Fprintf(rw.w, " %d\n", value)
}

// PrintHistogram writes the extended HDR percentile table.
func (rw *ReportWriter) PrintHistogram(h stats.HistogramStats) {
	rw.colors.Info.Fprintf(rw.w, "HDR histogram (%d values, %d dropped):\n", h.Count, h.Dropped)

	rows := []struct {
		label string
		value string
	}{
		{"min:", fmt.Sprintf("%d", h.Min)},
		{"mean:", fmt.Sprintf("%.2f", h.Mean)},
		{"stddev:", fmt.Sprintf("%.2f", h.StdDev)},
		{"p50:", fmt.Sprintf("%d", h.P50)},
		{"p90:", fmt.Sprintf("%d", h.P90)},
		{"p95:", fmt.Sprintf("%d", h.P95)},
		{"p99:", fmt.Sprintf("%d", h.P99)},
		{"p99.9:", fmt.Sprintf("%d", h.P999)},
		{"max:", fmt.Sprintf("%d", h.Max)},
	}
	for _, row := range rows {
		rw.colors.Label.Fprintf(rw.w, "  %-8s", row.label)
		rw.colors.Value.Fprintf(rw.w, "%s\n", row.value)
	}
}

// PrintWarning writes one warning line, used for truncated-tail notices.
func (rw *ReportWriter) PrintWarning(format string, args ...interface{}) {
	rw.colors.Warn.Fprintf(rw.w, "warning: "+format+"\n", args...)
}
