package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return repo
}

// Clock is a manually advanced engine.Clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock stopped at a fixed instant
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Registrar is a hotkeys.Registrar that remembers every table it
// receives and can be told to fail.
type Registrar struct {
	mu       sync.Mutex
	name     string
	fail     error
	failNext int
	tables   []*hotkeys.Table
	current  *hotkeys.Table
	clears   int
}

var _ hotkeys.Registrar = (*Registrar)(nil)

// NewRegistrar returns a Registrar that accepts every registration
func NewRegistrar(name string) *Registrar {
	return &Registrar{name: name}
}

func (r *Registrar) Name() string { return r.name }

// FailNext makes the next n registrations return err
func (r *Registrar) FailNext(err error, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail, r.failNext = err, n
}

func (r *Registrar) Register(t *hotkeys.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext > 0 {
		r.failNext--
		return r.fail
	}
	r.tables = append(r.tables, t)
	r.current = t
	return nil
}

func (r *Registrar) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
	r.clears++
	return nil
}

// Current returns the registered table, nil after Clear
func (r *Registrar) Current() *hotkeys.Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Registrations counts successful Register calls
func (r *Registrar) Registrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}

// Clears counts Clear calls
func (r *Registrar) Clears() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clears
}
