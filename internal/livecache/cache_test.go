package livecache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/notify"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type result struct {
	val string
	err error
}

// gatedLoader blocks every call until the test sends its result.
type gatedLoader struct {
	calls chan chan result
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{calls: make(chan chan result, 16)}
}

func (g *gatedLoader) load(ctx context.Context) (string, error) {
	reply := make(chan result, 1)
	g.calls <- reply
	select {
	case r := <-reply:
		return r.val, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *gatedLoader) next(t *testing.T) chan result {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(waitFor):
		t.Fatal("loader was not called")
		return nil
	}
}

func settled[T any](c *Cache[T]) func() bool {
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.inflight == 0
	}
}

func TestFirstReadLoads(t *testing.T) {
	g := newGatedLoader()
	c := New("t", g.load)
	defer c.Close()

	assert.Equal(t, StateEmpty, c.Status().State)

	_, ok := c.Read()
	assert.False(t, ok)
	call := g.next(t)
	assert.Equal(t, StateLoading, c.Status().State)

	// Still loading: no data yet, and no second fetch.
	_, ok = c.Read()
	assert.False(t, ok)

	call <- result{val: "v1"}
	require.Eventually(t, func() bool { _, ok := c.Read(); return ok }, waitFor, tick)
	v, _ := c.Read()
	assert.Equal(t, "v1", v)
	assert.Equal(t, StateReady, c.Status().State)
	assert.Empty(t, g.calls)
}

func TestSlowOlderFetchNeverWins(t *testing.T) {
	g := newGatedLoader()
	c := New("t", g.load)
	defer c.Close()

	c.Invalidate()
	older := g.next(t)
	c.Invalidate()
	newer := g.next(t)

	newer <- result{val: "new"}
	require.Eventually(t, func() bool { v, _ := c.Read(); return v == "new" }, waitFor, tick)

	older <- result{val: "old"}
	require.Eventually(t, settled(c), waitFor, tick)

	v, ok := c.Read()
	assert.True(t, ok)
	assert.Equal(t, "new", v)
	assert.Equal(t, StateReady, c.Status().State)
}

func TestOlderResultAppliedWhileNewerPending(t *testing.T) {
	g := newGatedLoader()
	c := New("t", g.load)
	defer c.Close()

	c.Invalidate()
	older := g.next(t)
	c.Invalidate()
	newer := g.next(t)

	older <- result{val: "old"}
	require.Eventually(t, func() bool { v, _ := c.Read(); return v == "old" }, waitFor, tick)
	assert.Equal(t, StateLoading, c.Status().State)

	newer <- result{val: "new"}
	require.Eventually(t, func() bool { v, _ := c.Read(); return v == "new" }, waitFor, tick)
	assert.Equal(t, StateReady, c.Status().State)
}

func TestFailedRefetchKeepsSnapshot(t *testing.T) {
	var fail atomic.Bool
	var n atomic.Int32
	c := New("t", func(context.Context) (int32, error) {
		if fail.Load() {
			return 0, errors.New("store unavailable")
		}
		return n.Add(1), nil
	})
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	v, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, int32(1), v)

	fail.Store(true)
	err := c.Refresh(ctx)
	require.Error(t, err)
	st := c.Status()
	assert.Equal(t, StateError, st.State)
	assert.Equal(t, "store unavailable", st.Err)

	fail.Store(false)
	// The read in the error state serves the old snapshot and retries.
	v, ok = c.Read()
	assert.True(t, ok)
	assert.Equal(t, int32(1), v)
	require.Eventually(t, func() bool { return c.Status().State == StateReady }, waitFor, tick)
	v, _ = c.Read()
	assert.Equal(t, int32(2), v)
}

func TestNotificationInvalidates(t *testing.T) {
	broker := notify.NewBroker()
	var n atomic.Int32
	c := New(notify.TableSections, func(context.Context) (int32, error) { return n.Add(1), nil })
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, broker))
	require.NoError(t, c.Start(ctx, broker))
	assert.Equal(t, 1, broker.Subscribers(notify.TableSections))

	require.NoError(t, c.Refresh(ctx))

	updates := make(chan int32, 4)
	c.OnUpdate(func(v int32) { updates <- v })

	require.NoError(t, broker.Publish(ctx, notify.Event{Table: notify.TableSections, Op: notify.OpUpdate, ID: "any"}))
	select {
	case v := <-updates:
		assert.Equal(t, int32(2), v)
	case <-time.After(waitFor):
		t.Fatal("no refetch after notification")
	}

	// Events for other tables are ignored.
	require.NoError(t, broker.Publish(ctx, notify.Event{Table: notify.TableProjects, Op: notify.OpUpdate}))
	assert.Never(t, func() bool { return len(updates) > 0 }, 50*time.Millisecond, tick)
}

func TestCloseReleasesSubscription(t *testing.T) {
	broker := notify.NewBroker()
	c := New(notify.TableArticles, func(context.Context) (string, error) { return "x", nil })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx, broker))
	require.NoError(t, c.Refresh(ctx))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 0, broker.Subscribers(notify.TableArticles))

	assert.ErrorIs(t, c.Refresh(ctx), ErrClosed)
	assert.ErrorIs(t, c.Start(ctx, broker), ErrClosed)
	v, ok := c.Read()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestCloseDropsInflightResult(t *testing.T) {
	g := newGatedLoader()
	c := New("t", g.load)

	c.Invalidate()
	call := g.next(t)
	require.NoError(t, c.Close())
	call <- result{val: "late"}
	require.Eventually(t, settled(c), waitFor, tick)

	_, ok := c.Read()
	assert.False(t, ok)
}

func TestResyncInvalidatesAll(t *testing.T) {
	var a, b atomic.Int32
	ca := New("a", func(context.Context) (int32, error) { return a.Add(1), nil })
	cb := New("b", func(context.Context) (int32, error) { return b.Add(1), nil })
	defer ca.Close()
	defer cb.Close()

	r := NewResync(time.Hour, ca, cb)
	r.Run()

	require.Eventually(t, func() bool { return a.Load() == 1 && b.Load() == 1 }, waitFor, tick)
}

func TestRefreshNotifiesEveryListener(t *testing.T) {
	var n atomic.Int32
	c := New(notify.TableProjects, func(context.Context) (int32, error) { return n.Add(1), nil })

	var first, second []int32
	c.OnUpdate(func(v int32) { first = append(first, v) })
	c.OnUpdate(func(v int32) { second = append(second, v) })

	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.Refresh(ctx))

	assert.Equal(t, []int32{1, 2}, first)
	assert.Equal(t, []int32{1, 2}, second)
}
