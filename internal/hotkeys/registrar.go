package hotkeys

import (
	"sync/atomic"

	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
)

// Registrar installs a trigger table with an input source. Register
// replaces whatever was registered before; Clear removes everything.
type Registrar interface {
	Name() string
	Register(t *Table) error
	Clear() error
}

// Router is an in-process registrar: triggers delivered to it are looked
// up in the most recently registered table.
type Router struct {
	name   string
	table  atomic.Pointer[Table]
	closed atomic.Bool
}

// NewRouter returns a Router with an empty table
func NewRouter(name string) *Router {
	r := &Router{name: name}
	r.table.Store(Empty)
	return r
}

func (r *Router) Name() string { return r.name }

func (r *Router) Register(t *Table) error {
	if r.closed.Load() {
		return errors.Internalf("%s listener is closed", r.name)
	}
	if t == nil {
		t = Empty
	}
	r.table.Store(t)
	return nil
}

func (r *Router) Clear() error {
	r.table.Store(Empty)
	return nil
}

// Close makes later registrations fail
func (r *Router) Close() {
	r.closed.Store(true)
	r.table.Store(Empty)
}

// Resolve looks a shortcut up in the registered table
func (r *Router) Resolve(shortcut string) (engine.Action, bool) {
	return r.table.Load().Lookup(shortcut)
}

// ResolveGamepad looks a bare button name up in the registered table
func (r *Router) ResolveGamepad(button string) (engine.Action, bool) {
	return r.table.Load().LookupGamepad(button)
}

// Table returns the registered table
func (r *Router) Table() *Table {
	return r.table.Load()
}
