//go:build unix

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Mmap-backed pools behave identically to heap-backed ones; only the arena
// source differs.
func Test_MmapBackedPool(t *testing.T) {
	p, err := New(128, 8, &Options{Mmap: true})
	require.NoError(t, err)

	ref, buf, err := p.Alloc()
	require.NoError(t, err)
	for i := range buf {
		buf[i] = 0x5A
	}
	require.NoError(t, p.Free(ref))

	ref2, _, err := p.Alloc()
	require.NoError(t, err)
	require.Equal(t, ref, ref2)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func Test_MmapBackedManager(t *testing.T) {
	m, err := NewManager(ClassesCoarse, &Options{Mmap: true})
	require.NoError(t, err)

	ref, _, err := m.Alloc(300)
	require.NoError(t, err)
	require.NoError(t, m.Free(ref))
	require.NoError(t, m.Close())
}
