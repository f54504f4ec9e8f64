package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedTotals struct {
	Leads int `json:"leads"`
}

func TestCacheServiceDisabledIsMiss(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", cachedTotals{Leads: 1}, 0))
	assert.Empty(t, repo.data)

	var out cachedTotals
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	require.NoError(t, nilSvc.Invalidate(context.Background(), "*"))
}

func TestRememberCachesLoadedValue(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), NewMetricsService(), time.Minute, nil, true)
	loads := 0
	load := func(context.Context) (*cachedTotals, error) {
		loads++
		return &cachedTotals{Leads: 7}, nil
	}

	value, hit, err := Remember(context.Background(), svc, "totals", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, value.Leads)

	value, hit, err = Remember(context.Background(), svc, "totals", 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, value.Leads)
	assert.Equal(t, 1, loads)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	boom := errors.New("platform down")

	_, _, err := Remember(context.Background(), svc, "totals", 0, func(context.Context) (*cachedTotals, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	value, hit, err := Remember(context.Background(), svc, "totals", 0, func(context.Context) (*cachedTotals, error) {
		return &cachedTotals{Leads: 2}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, value.Leads)
}

func TestRememberSharesConcurrentLoads(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, nil, false)
	var loads atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (*cachedTotals, error) {
		loads.Add(1)
		<-release
		return &cachedTotals{Leads: 3}, nil
	}

	var wg sync.WaitGroup
	results := make([]*cachedTotals, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, _, err := Remember(context.Background(), svc, "totals", 0, load)
			assert.NoError(t, err)
			results[i] = value
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, value := range results {
		require.NotNil(t, value)
		assert.Equal(t, 3, value.Leads)
	}
}

func TestRememberWithoutServiceAlwaysLoads(t *testing.T) {
	loads := 0
	for i := 0; i < 2; i++ {
		_, hit, err := Remember(context.Background(), nil, "totals", 0, func(context.Context) (cachedTotals, error) {
			loads++
			return cachedTotals{}, nil
		})
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, loads)
}

func TestRememberDropsLoadInvalidatedMidway(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan *cachedTotals)
	go func() {
		value, _, err := Remember(context.Background(), svc, "analytics:totals", 0, func(context.Context) (*cachedTotals, error) {
			close(started)
			<-release
			return &cachedTotals{Leads: 1}, nil
		})
		assert.NoError(t, err)
		done <- value
	}()

	<-started
	require.NoError(t, svc.Invalidate(context.Background(), "analytics:*"))
	close(release)
	stale := <-done
	assert.Equal(t, 1, stale.Leads, "the caller still gets its result")

	var out cachedTotals
	hit, err := svc.Get(context.Background(), "analytics:totals", &out)
	require.NoError(t, err)
	assert.False(t, hit, "a load that raced an invalidation is not cached")

	value, hit, err := Remember(context.Background(), svc, "analytics:totals", 0, func(context.Context) (*cachedTotals, error) {
		return &cachedTotals{Leads: 2}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, value.Leads)

	hit, err = svc.Get(context.Background(), "analytics:totals", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, out.Leads)
}
