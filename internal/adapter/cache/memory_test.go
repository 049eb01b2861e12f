package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	m.Set("k", []string{"a", "b"}, time.Minute)

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestMemoryMissingKey(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	_, ok := m.Get("never-set")
	assert.False(t, ok)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	base := time.Now()
	m.now = func() time.Time { return base }

	m.Set("k", "v", 5*time.Minute)

	_, ok := m.Get("k")
	require.True(t, ok)

	m.now = func() time.Time { return base.Add(5*time.Minute + time.Second) }
	_, ok = m.Get("k")
	assert.False(t, ok, "read after TTL elapsed is a miss")
	assert.Equal(t, 0, m.Len(), "expired entry is dropped on read")
}

func TestMemorySetReplacesWholesale(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	m.Set("k", "old", time.Millisecond)
	m.Set("k", "new", time.Hour)

	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	m.Set("k", "v", time.Hour)
	m.Delete("k")

	_, ok := m.Get("k")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	m.Delete("k")
}

func TestMemorySweep(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	base := time.Now()
	m.now = func() time.Time { return base }

	m.Set("stale", "v", time.Minute)
	m.Set("fresh", "v", time.Hour)

	m.now = func() time.Time { return base.Add(30 * time.Minute) }
	m.sweep()

	assert.Equal(t, 1, m.Len())
	_, ok := m.Get("fresh")
	assert.True(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	defer m.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 100; j++ {
				m.Set(key, n, time.Minute)
				m.Get(key)
				if j%10 == 0 {
					m.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
