package lock

import (
	"context"
	"sync"
	"time"
)

// Local is an in-process keyed mutex used when no Redis is configured.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
	wait  time.Duration
}

func NewLocal(wait time.Duration) *Local {
	return &Local{
		slots: make(map[string]chan struct{}),
		wait:  wait,
	}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	ch := l.slot(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, errTimeout(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
