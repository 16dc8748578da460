package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Concurrent churn through LockedPool: every goroutine allocates, scribbles,
// and frees; afterwards the pool must be whole again.
func Test_LockedPoolChurn(t *testing.T) {
	const (
		workers = 8
		rounds  = 500
	)
	lp, err := NewLocked(64, 16, nil)
	require.NoError(t, err)
	defer lp.Close()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(tag byte) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				ref, buf, err := lp.Alloc()
				if err != nil {
					// Exhaustion under contention is legitimate.
					continue
				}
				for j := range buf {
					buf[j] = tag
				}
				if err := lp.Free(ref); err != nil {
					t.Error(err)
					return
				}
			}
		}(byte(w))
	}
	wg.Wait()

	require.Equal(t, int32(16), lp.FreeCount())
	s := lp.Stats()
	require.Equal(t, int32(0), s.InUse())
	require.Zero(t, s.DoubleFrees)
}

func Test_LockedManagerChurn(t *testing.T) {
	const workers = 8
	lm, err := NewLockedManager([]SizeClass{
		{BlockSize: 32, BlockCount: 64},
		{BlockSize: 256, BlockCount: 16},
	}, nil)
	require.NoError(t, err)
	defer lm.Close()

	sizes := []int32{8, 32, 100, 256}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 400; i++ {
				ref, _, err := lm.Alloc(sizes[(w+i)%len(sizes)])
				if err != nil {
					continue
				}
				if err := lm.Free(ref); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	s := lm.Stats()
	require.Zero(t, s.ForeignFrees)
	for _, c := range s.Classes {
		require.Equal(t, c.BlockCount, c.FreeCount)
	}
}
