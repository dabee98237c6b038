package engine

import (
	"maps"

	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

// Checkpoint is an opaque copy of a State's schema and values, used to
// undo a Replace whose side effects could not be completed.
type Checkpoint struct {
	schema   *schema.Scoreboard
	numbers  map[string]int
	timers   map[string]timerRuntime
	labels   map[string]string
	toggles  map[string]int
	overlays map[string]string
}

// Checkpoint captures the current schema and every runtime value
func (s *State) Checkpoint() Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers := make(map[string]timerRuntime, len(s.timers))
	for id, t := range s.timers {
		timers[id] = *t
	}
	return Checkpoint{
		schema:   s.schema,
		numbers:  maps.Clone(s.numbers),
		timers:   timers,
		labels:   maps.Clone(s.labels),
		toggles:  maps.Clone(s.toggles),
		overlays: maps.Clone(s.overlays),
	}
}

// Restore puts back the schema and values captured by cp. Running timers
// keep their original anchors, so time spent in between still counts.
func (s *State) Restore(cp Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timers := make(map[string]*timerRuntime, len(cp.timers))
	for id, t := range cp.timers {
		t := t
		timers[id] = &t
	}
	s.schema = cp.schema
	s.numbers = orEmpty(maps.Clone(cp.numbers))
	s.timers = timers
	s.labels = orEmpty(maps.Clone(cp.labels))
	s.toggles = orEmpty(maps.Clone(cp.toggles))
	s.overlays = orEmpty(maps.Clone(cp.overlays))
}

func orEmpty[V any](m map[string]V) map[string]V {
	if m == nil {
		return make(map[string]V)
	}
	return m
}
