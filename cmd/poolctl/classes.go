package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/poolkit/pool"
)

var (
	classesPreset string
	classesSpecs  []string
)

func init() {
	cmd := newClassesCmd()
	cmd.Flags().StringVar(&classesPreset, "preset", "default", "Preset class table (default, fine, coarse)")
	cmd.Flags().
		StringArrayVar(&classesSpecs, "class", nil, "Ad-hoc size class as BLOCKSIZE:COUNT (repeatable, overrides --preset)")
	rootCmd.AddCommand(cmd)
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print a size class table with capacities",
		Long: `The classes command prints the block size, block count, and arena capacity
of each size class in a table, plus the total arena footprint.

Example:
  poolctl classes
  poolctl classes --preset fine
  poolctl classes --class 64:512 --class 4096:16 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
}

type classRow struct {
	BlockSize     int32 `json:"blockSize"`
	BlockCount    int32 `json:"blockCount"`
	CapacityBytes int64 `json:"capacityBytes"`
}

func runClasses() error {
	classes, err := resolveClasses(classesPreset, classesSpecs)
	if err != nil {
		return err
	}

	// Validate through a throwaway manager so bad ad-hoc specs are reported
	// the same way the library reports them.
	m, err := pool.NewManager(classes, nil)
	if err != nil {
		return err
	}
	defer m.Close()

	rows := make([]classRow, 0, len(classes))
	var total int64
	for _, c := range m.Classes() {
		capacity := int64(c.BlockSize) * int64(c.BlockCount)
		rows = append(rows, classRow{BlockSize: c.BlockSize, BlockCount: c.BlockCount, CapacityBytes: capacity})
		total += capacity
	}

	if jsonOut {
		out, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		printInfo("%s\n", out)
		return nil
	}

	p := message.NewPrinter(language.English)
	p.Printf("%12s %12s %16s\n", "BLOCK SIZE", "BLOCKS", "CAPACITY")
	for _, r := range rows {
		p.Printf("%12d %12d %16d\n", r.BlockSize, r.BlockCount, r.CapacityBytes)
	}
	p.Printf("total arena: %d bytes across %d classes\n", total, len(rows))
	return nil
}
