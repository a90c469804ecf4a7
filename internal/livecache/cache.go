// Package livecache keeps process-wide snapshots of store tables fresh by
// refetching whenever a write or a change notification invalidates them.
package livecache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/notify"
)

type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Loader fetches the full contents of one table.
type Loader[T any] func(ctx context.Context) (T, error)

var (
	ErrClosed     = errors.New("cache closed")
	ErrSuperseded = errors.New("fetch superseded by a newer one")
)

type Status struct {
	State     State     `json:"state"`
	Err       string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Cache holds the latest snapshot produced by its loader. Every fetch gets a
// token; a result is applied only when its token is newer than the last
// applied one, so a slow fetch can never overwrite a newer snapshot.
type Cache[T any] struct {
	table string
	load  Loader[T]
	log   *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	data      T
	hasData   bool
	err       error
	updatedAt time.Time
	issued    uint64
	applied   uint64
	inflight  int
	listeners []func(T)
	sub       notify.Subscription
	closed    bool
}

func New[T any](table string, load Loader[T]) *Cache[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache[T]{
		table:  table,
		load:   load,
		log:    logrus.WithFields(logrus.Fields{"component": "livecache", "table": table}),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Cache[T]) Table() string { return c.table }

// Start subscribes to change notifications for the cache's table. Every event
// invalidates the cache, whichever row it names.
func (c *Cache[T]) Start(ctx context.Context, sub notify.Subscriber) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.sub != nil {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	s, err := sub.Subscribe(ctx, c.table, func(ev notify.Event) {
		c.log.WithFields(logrus.Fields{"op": ev.Op, "id": ev.ID}).Debug("change event")
		c.Invalidate()
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.sub != nil {
		_ = s.Close()
		return nil
	}
	c.sub = s
	return nil
}

// Read returns the latest applied snapshot. ok is false until the first
// fetch succeeds. The first read of an empty cache, and any read after a
// failed fetch with nothing in flight, starts a fetch.
func (c *Cache[T]) Read() (T, bool) {
	c.mu.Lock()
	retry := !c.closed && c.inflight == 0 && (c.state == StateEmpty || c.state == StateError)
	data, ok := c.data, c.hasData
	c.mu.Unlock()

	if retry {
		c.Invalidate()
	}
	return data, ok
}

func (c *Cache[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{State: c.state, UpdatedAt: c.updatedAt}
	if c.err != nil {
		st.Err = c.err.Error()
	}
	return st
}

// OnUpdate registers fn to be called with every newly applied snapshot.
func (c *Cache[T]) OnUpdate(fn func(T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Invalidate starts a refetch in the background and returns immediately.
func (c *Cache[T]) Invalidate() {
	token, ok := c.begin()
	if !ok {
		return
	}
	go func() {
		_ = c.fetch(c.ctx, token)
	}()
}

// Refresh invalidates and waits for the fetch it started. When it returns nil
// the snapshot reflects the store at least as of the call.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	token, ok := c.begin()
	if !ok {
		return ErrClosed
	}
	err := c.fetch(ctx, token)
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// Close unsubscribes and stops applying fetch results. The last snapshot
// stays readable.
func (c *Cache[T]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	c.cancel()
	if sub != nil {
		return sub.Close()
	}
	return nil
}

func (c *Cache[T]) begin() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	c.issued++
	c.inflight++
	c.state = StateLoading
	return c.issued, true
}

func (c *Cache[T]) fetch(ctx context.Context, token uint64) error {
	data, err := c.load(ctx)

	c.mu.Lock()
	c.inflight--
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if token <= c.applied {
		c.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		// A newer fetch is still running; let it decide the state.
		if token == c.issued {
			c.state = StateError
			c.err = err
		}
		c.mu.Unlock()
		c.log.WithError(err).Warn("refetch failed, keeping previous snapshot")
		return err
	}

	c.applied = token
	c.data = data
	c.hasData = true
	c.err = nil
	c.updatedAt = time.Now()
	if token == c.issued {
		c.state = StateReady
	}
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(data)
	}
	return nil
}
