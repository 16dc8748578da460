package pool

// Predefined size class tables for callers without empirical sizing data.
// Counts are deliberately front-loaded: small classes see the most traffic in
// typical message/buffer workloads, and a small class costs little arena.
var (
	// DefaultClasses is a reasonable starting table: four powers-of-four
	// classes from 64B to 4KB, ~128KB of arena total.
	DefaultClasses = []SizeClass{
		{BlockSize: 64, BlockCount: 512},
		{BlockSize: 256, BlockCount: 192},
		{BlockSize: 1024, BlockCount: 32},
		{BlockSize: 4096, BlockCount: 8},
	}

	// ClassesFine narrows the gaps between classes, trading more pools for
	// tighter internal fragmentation bounds.
	ClassesFine = []SizeClass{
		{BlockSize: 32, BlockCount: 512},
		{BlockSize: 64, BlockCount: 384},
		{BlockSize: 128, BlockCount: 256},
		{BlockSize: 256, BlockCount: 128},
		{BlockSize: 512, BlockCount: 64},
		{BlockSize: 1024, BlockCount: 32},
		{BlockSize: 2048, BlockCount: 16},
		{BlockSize: 4096, BlockCount: 8},
	}

	// ClassesCoarse keeps routing cheap with only two classes and accepts
	// the wider worst-case waste.
	ClassesCoarse = []SizeClass{
		{BlockSize: 256, BlockCount: 256},
		{BlockSize: 4096, BlockCount: 32},
	}
)
