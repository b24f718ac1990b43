// Package bootstrap provides application lifecycle helpers.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"
)

// defaultGracePeriod bounds how long Run waits for run to return after an interrupt.
const defaultGracePeriod = 10 * time.Second

// App manages application lifecycle with graceful shutdown support.
type App struct {
	mu          sync.Mutex
	hooks       []func(ctx context.Context) error
	gracePeriod time.Duration
}

// New creates a new App.
func New() *App {
	return &App{gracePeriod: defaultGracePeriod}
}

// AddShutdownHook registers a function to call during shutdown.
// Hooks run in reverse order (LIFO). Thread-safe.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes run with a context that is canceled on OS interrupt.
// Shutdown hooks are called in LIFO order once run returns, and their errors are joined
// with the error of run. After an interrupt, run gets the grace period to return before
// the hooks close the resources it may still be using.
func (a *App) Run(ctx context.Context, run func(ctx context.Context) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		timer := time.NewTimer(a.gracePeriod)
		defer timer.Stop()
		select {
		case runErr = <-errCh:
		case <-timer.C:
		}
		if errors.Is(runErr, ctx.Err()) {
			runErr = nil
		}
	case runErr = <-errCh:
	}
	return errors.Join(runErr, a.shutdown(context.Background()))
}

func (a *App) shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
