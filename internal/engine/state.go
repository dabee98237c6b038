// Package engine holds the live scoreboard values derived from a compiled
// schema. A State is safe for concurrent use: every operation takes one
// mutex for its whole duration and none of them block on I/O.
package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

type timerRuntime struct {
	remainingMs int64
	running     bool
	lastTick    time.Time
}

// State is the single owner of runtime values for the active schema
type State struct {
	mu    sync.Mutex
	clock Clock

	schema   *schema.Scoreboard
	numbers  map[string]int
	timers   map[string]*timerRuntime
	labels   map[string]string
	toggles  map[string]int
	overlays map[string]string
}

// New returns an empty State. A nil clock means SystemClock.
func New(clock Clock) *State {
	if clock == nil {
		clock = SystemClock
	}
	return &State{
		clock:    clock,
		numbers:  make(map[string]int),
		timers:   make(map[string]*timerRuntime),
		labels:   make(map[string]string),
		toggles:  make(map[string]int),
		overlays: make(map[string]string),
	}
}

// Schema returns the active schema, or nil before the first Replace
func (s *State) Schema() *schema.Scoreboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

// Replace installs sb and resets every runtime value to its default.
// Nothing from the previous schema survives.
func (s *State) Replace(sb *schema.Scoreboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(sb)
}

func (s *State) replaceLocked(sb *schema.Scoreboard) {
	s.numbers = make(map[string]int)
	s.timers = make(map[string]*timerRuntime)
	s.labels = make(map[string]string)
	s.toggles = make(map[string]int)
	s.overlays = make(map[string]string)

	if sb != nil {
		for _, c := range sb.Components {
			switch k := c.Kind.(type) {
			case *schema.Number:
				s.numbers[c.ID] = k.Default
			case *schema.Timer:
				s.timers[c.ID] = &timerRuntime{remainingMs: k.DefaultMs}
			case *schema.Label:
				s.labels[c.ID] = k.Default
			case *schema.ImageToggle:
				s.toggles[c.ID] = 0
			}
		}
	}
	s.schema = sb
}

// ApplyAction performs a and reports whether a displayed value changed.
// Unknown ids and ids of the wrong kind are ignored.
func (s *State) ApplyAction(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Kind {
	case NumberIncrease, NumberDecrease, NumberReset:
		return s.applyNumber(a)
	case TimerStart, TimerStop, TimerReset, TimerIncrease, TimerDecrease:
		return s.applyTimer(a)
	case ImageToggleForward, ImageToggleBackward:
		return s.applyToggle(a)
	}
	return false
}

func (s *State) applyNumber(a Action) bool {
	value, ok := s.numbers[a.ID]
	if !ok {
		return false
	}
	next := value
	switch a.Kind {
	case NumberIncrease:
		next = value + 1
	case NumberDecrease:
		next = max(value-1, 0)
	case NumberReset:
		number, ok := s.kindOf(a.ID).(*schema.Number)
		if !ok {
			return false
		}
		next = number.Default
	}
	s.numbers[a.ID] = next
	return next != value
}

func (s *State) applyTimer(a Action) bool {
	timer, ok := s.timers[a.ID]
	if !ok {
		return false
	}
	now := s.clock.Now()

	switch a.Kind {
	case TimerStart:
		if timer.running || timer.remainingMs <= 0 {
			return false
		}
		timer.running = true
		timer.lastTick = now
		return true

	case TimerStop:
		if !timer.running {
			return false
		}
		timer.sync(now)
		timer.stop()
		return true
	}

	before := *timer
	timer.sync(now)
	switch a.Kind {
	case TimerReset:
		def, ok := s.kindOf(a.ID).(*schema.Timer)
		if !ok {
			return false
		}
		timer.remainingMs = def.DefaultMs
	case TimerIncrease:
		timer.remainingMs += 1000
	case TimerDecrease:
		timer.remainingMs = max(timer.remainingMs-1000, 0)
	}
	// a timer that ran out during sync stays stopped
	if timer.running {
		timer.reanchor(now)
	}
	return timer.remainingMs != before.remainingMs || timer.running != before.running
}

func (s *State) applyToggle(a Action) bool {
	index, ok := s.toggles[a.ID]
	if !ok {
		return false
	}
	toggle, ok := s.kindOf(a.ID).(*schema.ImageToggle)
	if !ok || len(toggle.Sources) == 0 {
		return false
	}
	n := len(toggle.Sources)
	next := (index + 1) % n
	if a.Kind == ImageToggleBackward {
		next = (index + n - 1) % n
	}
	s.toggles[a.ID] = next
	return next != index
}

// TickTimers advances every running timer by the wall-clock time since
// its last tick and reports whether any remaining value changed.
func (s *State) TickTimers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	changed := false
	for _, timer := range s.timers {
		if !timer.running {
			continue
		}
		before := timer.remainingMs
		timer.sync(now)
		if timer.remainingMs != before {
			changed = true
		}
	}
	return changed
}

// SetLabelValue overwrites the text of an editable label. Multi-line
// text is always rejected.
func (s *State) SetLabelValue(id, value string) (bool, error) {
	if strings.ContainsAny(value, "\r\n") {
		return false, runtimeError(id, "label text must be a single-line string")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schema == nil {
		return false, runtimeError(id, "no configuration loaded")
	}
	component, ok := s.schema.Component(id)
	if !ok {
		return false, runtimeError(id, "unknown component")
	}
	label, ok := component.Kind.(*schema.Label)
	if !ok {
		return false, runtimeError(id, "component is not a label")
	}
	if !label.Edit {
		return false, runtimeError(id, "label is not editable")
	}

	if s.labels[id] == value {
		return false, nil
	}
	s.labels[id] = value
	return true, nil
}

// SetImageSource overrides the displayed path of an image component until
// the next Replace. source must already be resolved.
func (s *State) SetImageSource(id, source string) (bool, error) {
	if strings.TrimSpace(source) == "" {
		return false, runtimeError(id, "image source cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schema == nil {
		return false, runtimeError(id, "no configuration loaded")
	}
	component, ok := s.schema.Component(id)
	if !ok {
		return false, runtimeError(id, "unknown component")
	}
	image, ok := component.Kind.(*schema.Image)
	if !ok {
		return false, runtimeError(id, "component is not an image")
	}

	current := image.Source
	if override, ok := s.overlays[id]; ok {
		current = override
	}
	if current == source {
		return false, nil
	}
	s.overlays[id] = source
	return true, nil
}

// kindOf must be called with mu held
func (s *State) kindOf(id string) schema.Kind {
	component, ok := s.schema.Component(id)
	if !ok {
		return nil
	}
	return component.Kind
}

// sync subtracts the whole milliseconds elapsed since lastTick and moves
// the anchor forward by exactly that amount. A timer reaching zero stops.
func (t *timerRuntime) sync(now time.Time) {
	if !t.running {
		return
	}
	elapsed := now.Sub(t.lastTick).Milliseconds()
	if elapsed > 0 {
		t.remainingMs = max(t.remainingMs-elapsed, 0)
		t.lastTick = t.lastTick.Add(time.Duration(elapsed) * time.Millisecond)
	}
	if t.remainingMs <= 0 {
		t.stop()
	}
}

// reanchor restarts measurement from now, stopping when nothing is left
func (t *timerRuntime) reanchor(now time.Time) {
	if t.remainingMs > 0 {
		t.running = true
		t.lastTick = now
		return
	}
	t.stop()
}

func (t *timerRuntime) stop() {
	t.running = false
	t.lastTick = time.Time{}
}

func runtimeError(id, msg string) *errors.Error {
	return &errors.Error{Kind: errors.ErrRuntime, Subject: id, Message: msg}
}
