// Package health runs readiness checks against the service's backing stores.
package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Checker pings named dependencies. It is safe for concurrent use.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Pinger
}

// NewChecker returns a Checker with no dependencies; it reports ready.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Pinger)}
}

// Add registers p under name. A nil p is ignored.
func (c *Checker) Add(name string, p Pinger) {
	if p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = p
}

// Report maps dependency name to "ok" or "unavailable".
type Report map[string]string

// Check pings every dependency concurrently. The error joins each failure, prefixed by name.
func (c *Checker) Check(ctx context.Context) (Report, error) {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for n := range c.checks {
		names = append(names, n)
	}
	sort.Strings(names)
	pingers := make([]Pinger, len(names))
	for i, n := range names {
		pingers[i] = c.checks[n]
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := pingers[i].PingContext(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", names[i], err)
			}
		}(i)
	}
	wg.Wait()

	report := make(Report, len(names))
	for i, n := range names {
		report[n] = "ok"
		if errs[i] != nil {
			report[n] = "unavailable"
		}
	}
	return report, errors.Join(errs...)
}
