package cli

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/latrec/latency"
)

var recordCmd = &cobra.Command{
	Use:   "record OUTPUT_LOG",
	Short: "Generate a latency log with synthetic measurements",
	Long: `Record writes synthetic latency records through the real recorder,
from several concurrent workers. Useful for producing fixture logs and
for exercising the recorder's concurrency guarantees end to end:

  latrec record demo.bin --count 10000 --workers 8
  latrec convert demo.bin demo.csv 10000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		workers, _ := cmd.Flags().GetInt("workers")
		prefix, _ := cmd.Flags().GetString("id-prefix")
		seed, _ := cmd.Flags().GetInt64("seed")
		minMicros, _ := cmd.Flags().GetInt64("min-micros")
		maxMicros, _ := cmd.Flags().GetInt64("max-micros")

		written, err := runRecord(recordOptions{
			path:      args[0],
			count:     count,
			workers:   workers,
			idPrefix:  prefix,
			seed:      seed,
			minMicros: minMicros,
			maxMicros: maxMicros,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Recorded %d records to %s\n", written, args[0])
		return nil
	},
}

func init() {
	recordCmd.Flags().Int("count", 1000, "total number of records to write")
	recordCmd.Flags().Int("workers", 4, "number of concurrent recording goroutines")
	recordCmd.Flags().String("id-prefix", "demo", "correlation ID prefix")
	recordCmd.Flags().Int64("seed", 1, "random seed for the latency distribution")
	recordCmd.Flags().Int64("min-micros", 50, "minimum synthetic latency in microseconds")
	recordCmd.Flags().Int64("max-micros", 50000, "maximum synthetic latency in microseconds")
}

type recordOptions struct {
	path      string
	count     int
	workers   int
	idPrefix  string
	seed      int64
	minMicros int64
	maxMicros int64
}

// runRecord writes opts.count synthetic records from opts.workers
// concurrent goroutines and returns the number written.
func runRecord(opts recordOptions) (int, error) {
	if opts.count <= 0 {
		return 0, fmt.Errorf("count must be positive, got %d", opts.count)
	}
	if opts.workers <= 0 {
		opts.workers = 1
	}
	if opts.maxMicros < opts.minMicros {
		return 0, fmt.Errorf("max-micros %d is below min-micros %d", opts.maxMicros, opts.minMicros)
	}

	fr, err := latency.NewFileRecorder(opts.path)
	if err != nil {
		return 0, err
	}

	written, recordErr := recordConcurrently(fr, opts)

	if err := fr.Close(); err != nil {
		if recordErr == nil {
			recordErr = err
		}
	}
	return written, recordErr
}

// latencyRecorder is the slice of the recorder the generator needs.
type latencyRecorder interface {
	RecordLatency(correlationID []byte, inboundTimestamp, outboundTimestamp int64) error
}

// recordConcurrently fans opts.count records out over the workers; the
// remainder of an uneven split goes to the first worker.
func recordConcurrently(rec latencyRecorder, opts recordOptions) (int, error) {
	perWorker := opts.count / opts.workers
	remainder := opts.count % opts.workers

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		written  int
	)

	for w := 0; w < opts.workers; w++ {
		n := perWorker
		if w == 0 {
			n += remainder
		}
		if n == 0 {
			continue
		}

		wg.Add(1)
		go func(w, n int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(opts.seed + int64(w)))

			for i := 0; i < n; i++ {
				id := fmt.Sprintf("%s-%d-%06d", opts.idPrefix, w, i)
				lat := opts.minMicros + rng.Int63n(opts.maxMicros-opts.minMicros+1)
				inbound := time.Now().UnixMicro()

				err := rec.RecordLatency([]byte(id), inbound, inbound+lat)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				written++
				mu.Unlock()
			}
		}(w, n)
	}
	wg.Wait()

	return written, firstErr
}
