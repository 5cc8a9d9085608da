package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chmouel/lazycommit/internal/log"
)

// Hook runs when the host shuts down.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Lifecycle holds hooks the host runs once when it shuts down.
type Lifecycle struct {
	mu    sync.Mutex
	hooks []namedHook
	once  sync.Once
	err   error
}

// NewLifecycle returns an empty Lifecycle.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// OnShutdown registers fn under name. Hooks run in registration order.
func (l *Lifecycle) OnShutdown(name string, fn Hook) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, namedHook{name: name, fn: fn})
}

// Shutdown runs every hook. Only the first call does anything; later calls
// return its result.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	l.once.Do(func() {
		l.mu.Lock()
		hooks := append([]namedHook(nil), l.hooks...)
		l.mu.Unlock()

		var errs []error
		for _, h := range hooks {
			log.Printf("shutdown: running %s", h.name)
			if err := h.fn(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			}
		}
		l.err = errors.Join(errs...)
	})
	return l.err
}
