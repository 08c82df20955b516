// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lru

import (
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/lrucache"
)

func TestNewInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -99} {
		t.Run(strconv.Itoa(capacity), func(t *testing.T) {
			c, err := New[int, string](capacity)
			require.ErrorIs(t, err, cache.ErrInvalidCapacity)
			require.Nil(t, c)
		})
	}
}

func TestAddAndGet(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](5)
	require.NoError(err)
	require.Zero(c.Count())
	require.Equal(5, c.Capacity())

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	require.NoError(c.Add(3, "three"))
	require.NoError(c.Add(4, "four"))
	require.Equal(4, c.Count())
	require.Equal(0.8, c.PortionFilled())

	for key, want := range map[int]string{1: "one", 2: "two", 3: "three", 4: "four"} {
		got, ok := c.Get(key)
		require.True(ok)
		require.Equal(want, got)
	}
}

func TestCapacityOne(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](1)
	require.NoError(err)

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	require.NoError(c.Add(3, "three"))
	require.NoError(c.Add(4, "four"))
	require.Equal(1, c.Count())

	got, ok := c.Get(4)
	require.True(ok)
	require.Equal("four", got)
}

func TestAddExistingKey(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](5)
	require.NoError(err)

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "one"))
	require.NoError(c.Add(1, "three"))
	require.Equal(2, c.Count())
	require.Equal([]int{1, 2}, c.Keys())

	got, ok := c.Get(1)
	require.True(ok)
	require.Equal("three", got)
}

func TestGetMissing(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](5)
	require.NoError(err)

	got, ok := c.Get(3)
	require.False(ok)
	require.Empty(got)

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))

	got, ok = c.Get(3)
	require.False(ok)
	require.Empty(got)
	require.Equal(2, c.Count())
	require.Equal([]int{2, 1}, c.Keys())
}

func TestZeroValueIsPresent(t *testing.T) {
	require := require.New(t)

	c, err := New[int, int](5)
	require.NoError(err)

	require.NoError(c.Add(1, 1))
	require.NoError(c.Add(2, 0))
	require.NoError(c.Add(1, 3))

	got, ok := c.Get(2)
	require.True(ok)
	require.Zero(got)

	got, ok = c.Get(3)
	require.False(ok)
	require.Zero(got)
}

func TestNilKey(t *testing.T) {
	require := require.New(t)

	c, err := New[*int, string](1)
	require.NoError(err)

	require.ErrorIs(c.Add(nil, "empty"), cache.ErrNilKey)
	require.Zero(c.Count())

	_, ok := c.Get(nil)
	require.False(ok)

	key := 7
	require.NoError(c.Add(&key, "seven"))
	got, ok := c.Get(&key)
	require.True(ok)
	require.Equal("seven", got)
}

func TestEvictFirstItem(t *testing.T) {
	require := require.New(t)

	var evicted []int
	c, err := NewWithOnEvict[int, string](4, func(key int, value string) {
		require.Equal("one", value)
		evicted = append(evicted, key)
	})
	require.NoError(err)

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	require.NoError(c.Add(3, "three"))
	require.NoError(c.Add(4, "four"))
	require.NoError(c.Add(5, "five"))

	require.Equal(4, c.Count())
	require.Equal([]int{1}, evicted)
	require.ElementsMatch([]int{2, 3, 4, 5}, c.Keys())

	_, ok := c.Get(1)
	require.False(ok)
}

func TestGetPromotesEntry(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](4)
	require.NoError(err)

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	require.NoError(c.Add(3, "three"))
	require.NoError(c.Add(4, "four"))

	c.Get(1)
	c.Get(2)
	c.Get(3)

	// 4 is now the least recently used
	require.NoError(c.Add(5, "five"))

	require.Equal(4, c.Count())
	require.Equal([]int{5, 3, 2, 1}, c.Keys())
	_, ok := c.Get(4)
	require.False(ok)
}

func TestAddPromotesExistingEntry(t *testing.T) {
	require := require.New(t)

	c, err := New[string, int](2)
	require.NoError(err)

	require.NoError(c.Add("a", 1))
	require.NoError(c.Add("b", 2))
	require.NoError(c.Add("a", 10))
	require.NoError(c.Add("c", 3))

	require.Equal([]string{"c", "a"}, c.Keys())
	got, ok := c.Get("a")
	require.True(ok)
	require.Equal(10, got)
}

func TestRepeatedGet(t *testing.T) {
	require := require.New(t)

	c, err := New[string, string](3)
	require.NoError(err)
	require.NoError(c.Add("x", "value-x"))
	require.NoError(c.Add("y", "value-y"))

	for range 10 {
		got, ok := c.Get("x")
		require.True(ok)
		require.Equal("value-x", got)
		require.Equal(2, c.Count())
	}
}

func TestEvictionNotification(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](2)
	require.NoError(err)

	var (
		evicted      bool
		evictedKey   int
		evictedValue string
	)
	id := c.Subscribe(func(key int, value string) {
		evicted = true
		evictedKey = key
		evictedValue = value
	})

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	c.Get(1)

	// 2 is now the least recently used
	require.NoError(c.Add(3, "three"))

	require.Equal(2, c.Count())
	require.True(evicted)
	require.Equal(2, evictedKey)
	require.Equal("two", evictedValue)

	c.Unsubscribe(id)
	evicted = false
	require.NoError(c.Add(4, "four"))
	require.False(evicted)
	require.Equal(2, c.Count())
	require.Equal([]int{4, 3}, c.Keys())
}

func TestHandlersCalledInRegistrationOrder(t *testing.T) {
	require := require.New(t)

	c, err := New[int, int](1)
	require.NoError(err)

	var calls []string
	c.Subscribe(func(int, int) { calls = append(calls, "first") })
	second := c.Subscribe(func(int, int) { calls = append(calls, "second") })
	c.Subscribe(func(int, int) { calls = append(calls, "third") })

	require.NoError(c.Add(1, 1))
	require.NoError(c.Add(2, 2))
	require.Equal([]string{"first", "second", "third"}, calls)

	c.Unsubscribe(second)
	c.Unsubscribe(second)
	c.Unsubscribe(12345)

	calls = nil
	require.NoError(c.Add(3, 3))
	require.Equal([]string{"first", "third"}, calls)
}

func TestHandlerMayUseCache(t *testing.T) {
	require := require.New(t)

	c, err := New[int, int](2)
	require.NoError(err)

	var seen []int
	c.Subscribe(func(key, _ int) {
		_, ok := c.Get(key)
		require.False(ok)
		seen = append(seen, c.Count())
	})

	require.NoError(c.Add(1, 1))
	require.NoError(c.Add(2, 2))
	require.NoError(c.Add(3, 3))
	require.Equal([]int{2}, seen)
}

func TestCountNeverExceedsCapacity(t *testing.T) {
	require := require.New(t)

	const capacity = 7
	c, err := New[int, int](capacity)
	require.NoError(err)

	for i := range 100 {
		require.NoError(c.Add(i%13, i))
		require.LessOrEqual(c.Count(), capacity)
		c.Get(i % 5)
		require.LessOrEqual(c.Count(), capacity)
		require.Len(c.Keys(), c.Count())
	}
	require.Equal(capacity, c.Count())
}

func TestConcurrentAccess(t *testing.T) {
	require := require.New(t)

	const (
		capacity = 10
		workers  = 8
		perWork  = 5_000
	)
	c, err := New[int, string](capacity)
	require.NoError(err)

	var evictions atomic.Int64
	c.Subscribe(func(int, string) {
		evictions.Add(1)
	})

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWork {
				key := w*perWork + i
				assert.NoError(t, c.Add(key, strconv.Itoa(key)))
				c.Get(i % 100)
			}
		}()
	}
	wg.Wait()

	require.Equal(capacity, c.Count())
	require.Equal(int64(workers*perWork-capacity), evictions.Load())
	require.Len(c.Keys(), capacity)
}

func BenchmarkAdd(b *testing.B) {
	c, err := New[int, int](1024)
	require.NoError(b, err)

	b.ResetTimer()
	for i := range b.N {
		_ = c.Add(i, i)
	}
}

func BenchmarkGet(b *testing.B) {
	c, err := New[int, int](1024)
	require.NoError(b, err)
	for i := range 1024 {
		require.NoError(b, c.Add(i, i))
	}

	b.ResetTimer()
	for i := range b.N {
		c.Get(i & 1023)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	require := require.New(t)

	c, err := New[int, int](1)
	require.NoError(err)

	id := c.Subscribe(nil)
	require.Zero(id)
	c.Unsubscribe(id)

	var evicted []int
	c.Subscribe(func(key, _ int) {
		evicted = append(evicted, key)
	})

	require.NoError(c.Add(1, 1))
	require.NotPanics(func() {
		require.NoError(c.Add(2, 2))
	})
	require.Equal([]int{1}, evicted)
	require.Equal([]int{2}, c.Keys())
}

func TestNewWithNilOnEvict(t *testing.T) {
	require := require.New(t)

	c, err := NewWithOnEvict[int, int](1, nil)
	require.NoError(err)

	require.NoError(c.Add(1, 1))
	require.NotPanics(func() {
		require.NoError(c.Add(2, 2))
	})
	require.Equal(1, c.Count())
}

func TestNilableKeyDetection(t *testing.T) {
	require := require.New(t)

	ints, err := New[int, int](1)
	require.NoError(err)
	require.False(ints.nilableKey)
	require.NoError(ints.Add(0, 0))

	ifaces, err := New[any, int](1)
	require.NoError(err)
	require.True(ifaces.nilableKey)
	require.ErrorIs(ifaces.Add(nil, 0), cache.ErrNilKey)
	require.NoError(ifaces.Add("x", 1))
}

func TestHandlerSeesInsertedKey(t *testing.T) {
	require := require.New(t)

	c, err := New[int, string](1)
	require.NoError(err)

	var present bool
	c.Subscribe(func(int, string) {
		_, present = c.Get(2)
	})

	require.NoError(c.Add(1, "one"))
	require.NoError(c.Add(2, "two"))
	require.True(present)
}
