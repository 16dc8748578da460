package pool

// PoolStats holds per-pool counters for testing and instrumentation. Pure
// counters: the allocator keeps no clocks and does no sampling or I/O.
type PoolStats struct {
	BlockSize  int32
	BlockCount int32
	FreeCount  int32

	// InUseHighWater is the largest number of simultaneously allocated
	// blocks observed, the number that matters when sizing a class.
	InUseHighWater int32

	AllocCalls    int // total Alloc() calls
	FreeCalls     int // total Free() calls, no-op nil frees excluded
	FailExhausted int // Alloc() calls rejected with ErrExhausted
	DoubleFrees   int // Free() calls rejected with ErrDoubleFree (strict mode)
}

// CapacityBytes returns the pool's arena size.
func (s PoolStats) CapacityBytes() int64 {
	return int64(s.BlockSize) * int64(s.BlockCount)
}

// InUse returns the number of blocks currently allocated.
func (s PoolStats) InUse() int32 {
	return s.BlockCount - s.FreeCount
}

// ManagerStats aggregates routing counters with per-class pool stats.
type ManagerStats struct {
	AllocCalls    int // total Alloc() calls on the manager
	FreeCalls     int // total Free() calls, no-op nil frees excluded
	FailTooLarge  int // requests no class could satisfy
	FailExhausted int // requests whose class (and spill chain) was empty
	ForeignFrees  int // frees of refs no pool owns
	Spills        int // allocations promoted to a larger class (Spill option)

	// Classes holds one entry per pool, ascending by block size.
	Classes []PoolStats
}

// CapacityBytes returns the total arena size across all classes.
func (s ManagerStats) CapacityBytes() int64 {
	var total int64
	for _, c := range s.Classes {
		total += c.CapacityBytes()
	}
	return total
}
