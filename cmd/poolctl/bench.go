package main

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/poolkit/pool"
)

var (
	benchPreset    string
	benchSpecs     []string
	benchIters     int
	benchLive      int
	benchSeed      int64
	benchSpill     bool
	benchUnchecked bool
	benchMmap      bool
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().StringVar(&benchPreset, "preset", "default", "Preset class table (default, fine, coarse)")
	cmd.Flags().
		StringArrayVar(&benchSpecs, "class", nil, "Ad-hoc size class as BLOCKSIZE:COUNT (repeatable, overrides --preset)")
	cmd.Flags().IntVar(&benchIters, "iters", 1_000_000, "Number of churn operations")
	cmd.Flags().IntVar(&benchLive, "live", 256, "Maximum outstanding allocations")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Seed for the request size sequence")
	cmd.Flags().BoolVar(&benchSpill, "spill", false, "Promote to larger classes on exhaustion")
	cmd.Flags().BoolVar(&benchUnchecked, "unchecked", false, "Disable double-free detection")
	cmd.Flags().BoolVar(&benchMmap, "mmap", false, "Back arenas with anonymous mmap")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a deterministic alloc/free churn benchmark",
		Long: `The bench command drives a seeded alloc/free churn over a manager and
reports throughput plus allocator statistics. The same seed always produces
the same request sequence.

Example:
  poolctl bench --iters 5000000
  poolctl bench --preset fine --spill --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type benchReport struct {
	Iters       int               `json:"iters"`
	ElapsedMS   float64           `json:"elapsedMs"`
	OpsPerSec   float64           `json:"opsPerSec"`
	LiveAtEnd   int               `json:"liveAtEnd"`
	Stats       pool.ManagerStats `json:"stats"`
	ClassesUsed int               `json:"classesUsed"`
}

func runBench() error {
	classes, err := resolveClasses(benchPreset, benchSpecs)
	if err != nil {
		return err
	}
	m, err := pool.NewManager(classes, &pool.Options{
		Spill:     benchSpill,
		Unchecked: benchUnchecked,
		Mmap:      benchMmap,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	maxSize := int(maxBlockSize(classes))
	rng := rand.New(rand.NewSource(benchSeed))
	live := make([]pool.Ref, 0, benchLive)

	start := time.Now()
	for i := 0; i < benchIters; i++ {
		if len(live) == benchLive || (len(live) > 0 && rng.Intn(2) == 0) {
			j := rng.Intn(len(live))
			if err := m.Free(live[j]); err != nil {
				return err
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		ref, _, err := m.Alloc(int32(1 + rng.Intn(maxSize)))
		if err != nil {
			// Exhaustion is part of the workload; it stays in the stats.
			continue
		}
		live = append(live, ref)
	}
	elapsed := time.Since(start)

	report := benchReport{
		Iters:       benchIters,
		ElapsedMS:   float64(elapsed.Microseconds()) / 1000,
		OpsPerSec:   float64(benchIters) / elapsed.Seconds(),
		LiveAtEnd:   len(live),
		Stats:       m.Stats(),
		ClassesUsed: len(classes),
	}

	if jsonOut {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		printInfo("%s\n", out)
		return nil
	}

	p := message.NewPrinter(language.English)
	p.Printf("%d ops in %v (%.0f ops/sec)\n", report.Iters, elapsed.Round(time.Millisecond), report.OpsPerSec)
	p.Printf("allocs: %d  frees: %d  exhausted: %d  too large: %d  spills: %d\n",
		report.Stats.AllocCalls, report.Stats.FreeCalls,
		report.Stats.FailExhausted, report.Stats.FailTooLarge, report.Stats.Spills)
	for _, c := range report.Stats.Classes {
		p.Printf("  class %6d: %6d blocks, high water %6d, exhausted %d times\n",
			c.BlockSize, c.BlockCount, c.InUseHighWater, c.FailExhausted)
	}
	return nil
}
