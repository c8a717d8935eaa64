package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrComputeComputesOnce(t *testing.T) {
	m := NewMemo()
	calls := 0
	compute := func() (string, error) {
		calls++
		return "ent-123", nil
	}

	v, err := m.GetOrCompute("tenant-1", compute)
	require.NoError(t, err)
	require.Equal(t, "ent-123", v)

	v, err = m.GetOrCompute("tenant-1", compute)
	require.NoError(t, err)
	require.Equal(t, "ent-123", v)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, m.Len())
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	m := NewMemo()
	calls := 0
	_, err := m.GetOrCompute("tenant-1", func() (string, error) {
		calls++
		return "", errors.New("upstream down")
	})
	require.Error(t, err)

	v, err := m.GetOrCompute("tenant-1", func() (string, error) {
		calls++
		return "ent-123", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ent-123", v)
	require.Equal(t, 2, calls)
}

func TestGetOrComputeConcurrent(t *testing.T) {
	m := NewMemo()
	var computes int
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := m.GetOrCompute("tenant-1", func() (string, error) {
				computes++ // runs in a single flight, at most once
				return "ent-123", nil
			})
			require.NoError(t, err)
			require.Equal(t, "ent-123", v)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, computes)
}

func TestGetOrComputeKeysDoNotBlockEachOther(t *testing.T) {
	m := NewMemo()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		v, err := m.GetOrCompute("tenant-slow", func() (string, error) {
			close(started)
			<-release
			return "ent-slow", nil
		})
		require.NoError(t, err)
		require.Equal(t, "ent-slow", v)
	}()

	// With the slow compute in flight, another key must still resolve.
	<-started
	v, err := m.GetOrCompute("tenant-fast", func() (string, error) {
		return "ent-fast", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ent-fast", v)

	close(release)
	<-done
	require.Equal(t, 2, m.Len())
}
