package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/latrec/internal/config"
	"github.com/wesleyorama2/latrec/internal/output"
	"github.com/wesleyorama2/latrec/internal/stats"
	"github.com/wesleyorama2/latrec/latency"
)

// csvWriterBufferSize is the buffer size for the CSV output file.
const csvWriterBufferSize = 8192

var convertCmd = &cobra.Command{
	Use:   "convert INPUT_LOG OUTPUT_CSV [SAMPLE_COUNT]",
	Short: "Convert a binary latency log to CSV with an optional percentile report",
	Long: `Convert reads a binary latency log and writes one CSV line per record:

  time-of-day,correlationId,latencyMicros

When SAMPLE_COUNT is given and positive, up to that many latency values
are collected and a rank-based percentile report (MIN, MAX, MEDIAN,
99.000% .. 99.999%) is printed after the conversion.

Arguments may also come from a YAML or JSON job file:

  latrec convert --config job.yaml`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		hdr, _ := cmd.Flags().GetBool("hdr")
		jsonSummary, _ := cmd.Flags().GetString("json-summary")
		noColor, _ := cmd.Flags().GetBool("no-color")

		opts := convertOptions{
			hdr:         hdr,
			jsonSummary: jsonSummary,
			noColor:     noColor,
			formatter:   output.UTCTimeOfDay{},
			console:     os.Stdout,
			errOut:      os.Stderr,
		}

		if configFile != "" {
			job, err := config.LoadConvertJob(configFile)
			if err != nil {
				return err
			}
			opts.input = job.Input
			opts.output = job.Output
			opts.sampleCount = job.SampleCount
			opts.hdr = opts.hdr || job.HDR
			opts.noColor = opts.noColor || job.NoColor
			if opts.jsonSummary == "" {
				opts.jsonSummary = job.JSONSummary
			}
		}

		// Positional arguments override the job file.
		if len(args) > 0 {
			opts.input = args[0]
		}
		if len(args) > 1 {
			opts.output = args[1]
		}
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid sample count %q: %w", args[2], err)
			}
			opts.sampleCount = n
		}

		if opts.input == "" || opts.output == "" {
			return errors.New("an input log and an output CSV file are required (arguments or --config)")
		}

		return runConvert(opts)
	},
}

func init() {
	convertCmd.Flags().String("config", "", "YAML or JSON job file supplying arguments")
	convertCmd.Flags().Bool("hdr", false, "also print an HDR histogram percentile table")
	convertCmd.Flags().String("json-summary", "", "write a JSON summary document to this path")
	convertCmd.Flags().Bool("no-color", false, "disable colored console output")
}

// convertOptions carries everything runConvert needs, with the console
// writers injectable for tests.
type convertOptions struct {
	input       string
	output      string
	sampleCount int
	hdr         bool
	jsonSummary string
	noColor     bool

	formatter output.TimeOfDayFormatter
	console   io.Writer
	errOut    io.Writer
}

// convertResult is what the decode loop hands to the reporting stage.
type convertResult struct {
	records   int
	truncated bool
	sample    *stats.SampleBuffer
	hist      *stats.Histogram
}

// runConvert is the linear pipeline: open log, lazily decode, fan out to
// the CSV writer and the optional collectors, release the files, then
// report. Both files are closed on every exit path.
func runConvert(opts convertOptions) error {
	report := output.NewReportWriter(opts.console, opts.noColor)
	warn := output.NewReportWriter(opts.errOut, opts.noColor)

	res, err := decodeToCSV(opts, warn)
	if err != nil {
		return err
	}

	doc := &output.SummaryDocument{
		Input:     opts.input,
		Output:    opts.output,
		Records:   res.records,
		Truncated: res.truncated,
	}

	if res.sample != nil {
		if summary, ok := stats.Summarize(res.sample.Values()); ok {
			report.PrintSummary(summary)
			doc.Samples = output.NewSampleStats(summary)
		}
	}
	if res.hist != nil {
		hs := res.hist.Stats()
		report.PrintHistogram(hs)
		doc.Histogram = output.NewHistogramStats(hs)
	}

	if opts.jsonSummary != "" {
		if err := output.WriteSummaryJSON(opts.jsonSummary, doc); err != nil {
			return err
		}
	}
	return nil
}

// decodeToCSV streams the log into the CSV file and the collectors.
// Truncation warnings go to warn, which the command binds to stderr.
func decodeToCSV(opts convertOptions, warn *output.ReportWriter) (convertResult, error) {
	var res convertResult

	in, err := os.Open(opts.input)
	if err != nil {
		return res, fmt.Errorf("opening latency log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(opts.output)
	if err != nil {
		return res, fmt.Errorf("creating CSV file: %w", err)
	}
	// The explicit Close below catches the final flush error on the
	// success path; this one releases the handle on error paths.
	defer out.Close()

	if opts.sampleCount > 0 {
		res.sample = stats.NewSampleBuffer(opts.sampleCount)
	}
	if opts.hdr {
		res.hist = stats.NewHistogram()
	}

	bw := bufio.NewWriterSize(out, csvWriterBufferSize)
	reader := latency.NewReader(in)
	var line []byte

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, latency.ErrTruncatedRecord) {
			// The decoded prefix is intact; the torn tail is reported
			// and discarded, never emitted with stale bytes.
			warn.PrintWarning("%v", err)
			res.truncated = true
			break
		}
		if err != nil {
			return res, err
		}

		line = line[:0]
		line = append(line, opts.formatter.Format(rec.CaptureMillis)...)
		line = append(line, ',')
		line = append(line, rec.CorrelationID...)
		line = append(line, ',')
		line = strconv.AppendInt(line, rec.LatencyMicros, 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return res, fmt.Errorf("writing CSV line %d: %w", res.records+1, err)
		}

		if res.sample != nil {
			if err := res.sample.Add(rec.LatencyMicros); err != nil {
				return res, fmt.Errorf("record %d: %w", res.records+1, err)
			}
		}
		if res.hist != nil {
			res.hist.Record(rec.LatencyMicros)
		}
		res.records++
	}

	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("flushing CSV file: %w", err)
	}
	if err := out.Close(); err != nil {
		return res, fmt.Errorf("closing CSV file: %w", err)
	}
	return res, nil
}
