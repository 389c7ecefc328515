package snowflake

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests in this file mutate the package-level node and must not run in parallel.

func TestInit_NodeBounds(t *testing.T) {
	tests := []struct {
		name    string
		node    int64
		wantErr bool
	}{
		{name: "lowest node", node: 0},
		{name: "highest node", node: 1023},
		{name: "negative node", node: -1, wantErr: true},
		{name: "node above range", node: 1024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.node)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}

	require.NoError(t, Init(0))
}

func TestNextID_IncreasingAndPositive(t *testing.T) {
	require.NoError(t, Init(0))

	prev := NextID()
	require.Positive(t, prev)
	for i := 0; i < 1000; i++ {
		id := NextID()
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestNextID_ConcurrentCallersNeverCollide(t *testing.T) {
	require.NoError(t, Init(0))

	const goroutines = 8
	const perGoroutine = 1000

	var (
		wg   sync.WaitGroup
		lock sync.Mutex
		seen = make(map[int64]struct{}, goroutines*perGoroutine)
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				local = append(local, NextID())
			}
			lock.Lock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
			lock.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, goroutines*perGoroutine)
}
