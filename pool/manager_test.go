package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoClassManager(t *testing.T, opts *Options) *Manager {
	t.Helper()
	m, err := NewManager([]SizeClass{
		{BlockSize: 32, BlockCount: 4},
		{BlockSize: 128, BlockCount: 2},
	}, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func Test_ManagerValidation(t *testing.T) {
	_, err := NewManager(nil, nil)
	require.ErrorIs(t, err, ErrBadConfig)

	_, err = NewManager([]SizeClass{
		{BlockSize: 64, BlockCount: 4},
		{BlockSize: 64, BlockCount: 8},
	}, nil)
	require.ErrorIs(t, err, ErrBadConfig)

	// A bad class after a good one still fails the whole construction.
	_, err = NewManager([]SizeClass{
		{BlockSize: 64, BlockCount: 4},
		{BlockSize: 128, BlockCount: 0},
	}, nil)
	require.ErrorIs(t, err, ErrBadConfig)
}

func Test_ClassesSortedAscending(t *testing.T) {
	m, err := NewManager([]SizeClass{
		{BlockSize: 1024, BlockCount: 2},
		{BlockSize: 32, BlockCount: 4},
		{BlockSize: 128, BlockCount: 2},
	}, nil)
	require.NoError(t, err)
	defer m.Close()

	classes := m.Classes()
	require.Equal(t, []SizeClass{
		{BlockSize: 32, BlockCount: 4},
		{BlockSize: 128, BlockCount: 2},
		{BlockSize: 1024, BlockCount: 2},
	}, classes)
}

// Test_RoutingIdempotence: a 40-byte request must land in the 128 class on
// every call, never the 32 class.
func Test_RoutingIdempotence(t *testing.T) {
	m := twoClassManager(t, nil)
	big := m.Pools()[1]
	require.Equal(t, int32(128), big.BlockSize())

	for i := 0; i < 16; i++ {
		ref, buf, err := m.Alloc(40)
		require.NoError(t, err)
		require.True(t, big.Contains(ref), "request for 40 bytes must route to the 128 class")
		require.Len(t, buf, 128)
		require.NoError(t, m.Free(ref))
	}
}

func Test_ExactFitRouting(t *testing.T) {
	m := twoClassManager(t, nil)
	small := m.Pools()[0]

	ref, buf, err := m.Alloc(32)
	require.NoError(t, err)
	require.True(t, small.Contains(ref))
	require.Len(t, buf, 32)
	require.NoError(t, m.Free(ref))
}

func Test_RequestTooLarge(t *testing.T) {
	m := twoClassManager(t, nil)

	_, _, err := m.Alloc(129)
	require.ErrorIs(t, err, ErrTooLarge)

	_, _, err = m.Alloc(0)
	require.ErrorIs(t, err, ErrBadRequest)
	_, _, err = m.Alloc(-5)
	require.ErrorIs(t, err, ErrBadRequest)
}

// Test_NoSpillByDefault: exhausting the 32 class must not silently promote
// requests into the 128 class.
func Test_NoSpillByDefault(t *testing.T) {
	m := twoClassManager(t, nil)

	for i := 0; i < 4; i++ {
		_, _, err := m.Alloc(32)
		require.NoError(t, err)
	}
	_, _, err := m.Alloc(32)
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorContains(t, err, "size class 32")
	require.Equal(t, int32(2), m.Pools()[1].FreeCount(), "larger class must stay untouched")
}

func Test_SpillOptIn(t *testing.T) {
	m := twoClassManager(t, &Options{Spill: true})
	big := m.Pools()[1]

	for i := 0; i < 4; i++ {
		_, _, err := m.Alloc(32)
		require.NoError(t, err)
	}

	// Fifth small request spills into the 128 class.
	ref, _, err := m.Alloc(32)
	require.NoError(t, err)
	require.True(t, big.Contains(ref))
	require.Equal(t, 1, m.Stats().Spills)

	// With every class empty the spill chain still reports exhaustion of the
	// intended class.
	_, _, err = m.Alloc(32)
	require.NoError(t, err)
	_, _, err = m.Alloc(32)
	require.ErrorIs(t, err, ErrExhausted)
	require.ErrorContains(t, err, "size class 32")
}

// Test_ForeignRefRejected: refs outside every pool's range (or misaligned
// inside one) are rejected and no pool's free count moves.
func Test_ForeignRefRejected(t *testing.T) {
	m := twoClassManager(t, nil)

	before := []int32{m.Pools()[0].FreeCount(), m.Pools()[1].FreeCount()}

	// Past the last pool's range: 32*4 + 128*2 = 384.
	require.ErrorIs(t, m.Free(Ref(384)), ErrForeignRef)
	require.ErrorIs(t, m.Free(Ref(100000)), ErrForeignRef)
	// Inside the small pool's range but off a block boundary.
	require.ErrorIs(t, m.Free(Ref(7)), ErrForeignRef)
	// Inside the large pool's range but off a block boundary.
	require.ErrorIs(t, m.Free(Ref(32*4+1)), ErrForeignRef)

	require.Equal(t, before[0], m.Pools()[0].FreeCount())
	require.Equal(t, before[1], m.Pools()[1].FreeCount())
	require.Equal(t, 4, m.Stats().ForeignFrees)

	_, err := m.Bytes(Ref(384))
	require.ErrorIs(t, err, ErrForeignRef)
}

// Test_OwnershipRouting: one block from each class, freed in reverse order,
// must each return to its originating pool's free list. LIFO re-alloc proves
// it by handing back the exact same refs.
func Test_OwnershipRouting(t *testing.T) {
	m := twoClassManager(t, nil)

	small, _, err := m.Alloc(32)
	require.NoError(t, err)
	big, _, err := m.Alloc(128)
	require.NoError(t, err)

	require.NoError(t, m.Free(big))
	require.NoError(t, m.Free(small))

	small2, _, err := m.Alloc(32)
	require.NoError(t, err)
	require.Equal(t, small, small2)

	big2, _, err := m.Alloc(128)
	require.NoError(t, err)
	require.Equal(t, big, big2)
}

func Test_ManagerBytesRoundTrip(t *testing.T) {
	m := twoClassManager(t, nil)

	ref, buf, err := m.Alloc(100)
	require.NoError(t, err)
	copy(buf, "deterministic")

	view, err := m.Bytes(ref)
	require.NoError(t, err)
	require.Equal(t, []byte("deterministic"), view[:13])
}

func Test_ManagerFreeNilIsNoop(t *testing.T) {
	m := twoClassManager(t, nil)
	require.NoError(t, m.Free(RefNil))
	require.Equal(t, 0, m.Stats().FreeCalls)
}

func Test_ManagerClose(t *testing.T) {
	m, err := NewManager(DefaultClasses, nil)
	require.NoError(t, err)

	ref, _, err := m.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, _, err = m.Alloc(64)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, m.Free(ref), ErrClosed)
	require.NoError(t, m.Free(RefNil))
}

func Test_ManagerStats(t *testing.T) {
	m := twoClassManager(t, nil)

	_, _, err := m.Alloc(16)
	require.NoError(t, err)
	_, _, err = m.Alloc(500)
	require.ErrorIs(t, err, ErrTooLarge)

	s := m.Stats()
	require.Equal(t, 2, s.AllocCalls)
	require.Equal(t, 1, s.FailTooLarge)
	require.Len(t, s.Classes, 2)
	require.Equal(t, int32(32), s.Classes[0].BlockSize)
	require.Equal(t, int32(3), s.Classes[0].FreeCount)
	require.Equal(t, int64(32*4+128*2), s.CapacityBytes())
}

func Test_PresetClassTables(t *testing.T) {
	for _, classes := range [][]SizeClass{DefaultClasses, ClassesFine, ClassesCoarse} {
		m, err := NewManager(classes, nil)
		require.NoError(t, err)
		ref, _, err := m.Alloc(1)
		require.NoError(t, err)
		require.NoError(t, m.Free(ref))
		require.NoError(t, m.Close())
	}
}
