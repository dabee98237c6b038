package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func chord(key string) *schema.KeyChord {
	return &schema.KeyChord{Key: key}
}

func testSchema() *schema.Scoreboard {
	font := schema.Font{Family: "Segoe UI", Size: 28, Color: "#FFFFFF"}
	sb := &schema.Scoreboard{
		Global: schema.GlobalSettings{BackgroundColor: "#112233", Font: font},
		Components: []schema.Component{
			{ID: "home", Position: schema.Position{X: 10, Y: 20}, Font: font, Kind: &schema.Number{
				Default: 3,
				Keybind: &schema.NumberKeybind{Increase: chord("Q"), Reset: &schema.KeyChord{Key: "R", Ctrl: true}},
			}},
			{ID: "clock", Position: schema.Position{X: 300, Y: 10}, Alignment: schema.AlignCenter, Font: font, Kind: &schema.Timer{
				DefaultMs: 10_000,
				Rounding:  schema.RoundingStandard,
				Keybind:   &schema.TimerKeybind{Start: &schema.KeyChord{Key: "A", Gamepad: true}, Stop: chord("Space")},
			}},
			{ID: "shot", Font: font, Kind: &schema.Timer{DefaultMs: 500, Rounding: schema.RoundingBasketball}},
			{ID: "title", Font: font, Kind: &schema.Label{Default: "Finals", Edit: true}},
			{ID: "venue", Font: font, Kind: &schema.Label{Default: "Arena"}},
			{ID: "logo", Font: font, Kind: &schema.Image{Source: "/img/logo.png", Width: 64, Height: 32, Opacity: 0.5}},
			{ID: "arrow", Font: font, Kind: &schema.ImageToggle{
				Sources: []string{"/img/a.png", "/img/b.png", "/img/c.png"},
				Width:   16, Height: 16, Opacity: 1,
				Keybind: &schema.ImageToggleKeybind{Backward: chord("Left")},
			}},
			{ID: "single", Font: font, Kind: &schema.ImageToggle{Sources: []string{"/img/only.png"}, Width: 1, Height: 1, Opacity: 1}},
		},
	}
	sb.SortComponents()
	return sb
}

func newTestState(t *testing.T) (*State, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s := New(clock)
	s.Replace(testSchema())
	return s, clock
}

func viewOf(t *testing.T, s *State, id string) ComponentView {
	t.Helper()
	for _, v := range s.Snapshot().Components {
		if v.ID == id {
			return v
		}
	}
	t.Fatalf("component %q not in snapshot", id)
	return ComponentView{}
}

func textOf(t *testing.T, s *State, id string) string {
	t.Helper()
	v := viewOf(t, s, id)
	require.NotNil(t, v.Text, "component %q has no text", id)
	return *v.Text
}

func TestNumberActions(t *testing.T) {
	s, _ := newTestState(t)

	assert.True(t, s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"}))
	assert.Equal(t, "4", textOf(t, s, "home"))

	assert.True(t, s.ApplyAction(Action{Kind: NumberReset, ID: "home"}))
	assert.Equal(t, "3", textOf(t, s, "home"))
	assert.False(t, s.ApplyAction(Action{Kind: NumberReset, ID: "home"}), "reset to the same value")

	for i := 0; i < 3; i++ {
		assert.True(t, s.ApplyAction(Action{Kind: NumberDecrease, ID: "home"}))
	}
	assert.Equal(t, "0", textOf(t, s, "home"))
	assert.False(t, s.ApplyAction(Action{Kind: NumberDecrease, ID: "home"}), "decrease at zero")
	assert.Equal(t, "0", textOf(t, s, "home"))
}

func TestUnknownTargetsAreIgnored(t *testing.T) {
	s, _ := newTestState(t)
	before := s.Snapshot()

	assert.False(t, s.ApplyAction(Action{Kind: NumberIncrease, ID: "missing"}))
	assert.False(t, s.ApplyAction(Action{Kind: TimerStart, ID: "home"}))
	assert.False(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "clock"}))
	assert.False(t, s.ApplyAction(Action{Kind: ActionKind(99), ID: "home"}))

	assert.Equal(t, before, s.Snapshot())
}

func TestEmptyStateIsSafe(t *testing.T) {
	s := New(nil)

	assert.False(t, s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"}))
	assert.False(t, s.TickTimers())
	assert.Nil(t, s.CollectHotkeys())

	snap := s.Snapshot()
	assert.Equal(t, "#000000", snap.BackgroundColor)
	assert.Empty(t, snap.Components)

	_, err := s.SetLabelValue("title", "x")
	assert.True(t, errors.IsKind(err, errors.ErrRuntime))
}

func TestTimerStartStop(t *testing.T) {
	s, clock := newTestState(t)

	assert.True(t, s.ApplyAction(Action{Kind: TimerStart, ID: "clock"}))
	assert.False(t, s.ApplyAction(Action{Kind: TimerStart, ID: "clock"}), "already running")

	clock.Advance(2500 * time.Millisecond)
	assert.True(t, s.ApplyAction(Action{Kind: TimerStop, ID: "clock"}))
	assert.Equal(t, "00:07", textOf(t, s, "clock"))
	assert.False(t, *viewOf(t, s, "clock").Running)
	assert.False(t, s.ApplyAction(Action{Kind: TimerStop, ID: "clock"}), "already stopped")

	// stopped timers do not advance
	clock.Advance(time.Minute)
	assert.False(t, s.TickTimers())
	assert.Equal(t, "00:07", textOf(t, s, "clock"))
}

func TestTimerStartAtZeroIsNoop(t *testing.T) {
	s, _ := newTestState(t)
	for i := 0; i < 10; i++ {
		s.ApplyAction(Action{Kind: TimerDecrease, ID: "clock"})
	}
	assert.Equal(t, "00:00", textOf(t, s, "clock"))

	assert.False(t, s.ApplyAction(Action{Kind: TimerStart, ID: "clock"}))
	assert.False(t, *viewOf(t, s, "clock").Running)
}

func TestTickRunsTimerOut(t *testing.T) {
	s, clock := newTestState(t)
	require.True(t, s.ApplyAction(Action{Kind: TimerStart, ID: "shot"}))

	clock.Advance(200 * time.Millisecond)
	assert.True(t, s.TickTimers())
	assert.Equal(t, "0.3", textOf(t, s, "shot"))

	clock.Advance(400 * time.Millisecond)
	assert.True(t, s.TickTimers())
	v := viewOf(t, s, "shot")
	assert.Equal(t, "0.0", *v.Text)
	assert.False(t, *v.Running)

	clock.Advance(time.Second)
	assert.False(t, s.TickTimers())
}

func TestTickWithoutElapsedTime(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})

	assert.False(t, s.TickTimers())
	clock.Advance(400 * time.Microsecond)
	assert.False(t, s.TickTimers(), "sub-millisecond elapsed")
}

func TestTickDoesNotDrift(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})

	// 1000 ticks of 1.5ms each must consume exactly 1500ms
	for i := 0; i < 1000; i++ {
		clock.Advance(1500 * time.Microsecond)
		s.TickTimers()
	}
	s.ApplyAction(Action{Kind: TimerStop, ID: "clock"})

	cp := s.Checkpoint()
	assert.EqualValues(t, 8500, cp.timers["clock"].remainingMs)
}

func TestTimerAdjustWhileRunning(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})

	clock.Advance(3 * time.Second)
	assert.True(t, s.ApplyAction(Action{Kind: TimerIncrease, ID: "clock"}))
	assert.Equal(t, "00:08", textOf(t, s, "clock"))
	assert.True(t, *viewOf(t, s, "clock").Running)

	clock.Advance(time.Second)
	assert.True(t, s.ApplyAction(Action{Kind: TimerDecrease, ID: "clock"}))
	assert.Equal(t, "00:06", textOf(t, s, "clock"))

	clock.Advance(2 * time.Second)
	assert.True(t, s.ApplyAction(Action{Kind: TimerReset, ID: "clock"}))
	assert.Equal(t, "00:10", textOf(t, s, "clock"))
	assert.True(t, *viewOf(t, s, "clock").Running, "reset keeps a running timer running")

	clock.Advance(time.Second)
	assert.True(t, s.TickTimers())
	assert.Equal(t, "00:09", textOf(t, s, "clock"))
}

func TestTimerDecreaseToZeroStops(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "shot"})

	clock.Advance(100 * time.Millisecond)
	assert.True(t, s.ApplyAction(Action{Kind: TimerDecrease, ID: "shot"}))
	v := viewOf(t, s, "shot")
	assert.Equal(t, "0.0", *v.Text)
	assert.False(t, *v.Running)
}

func TestTimerRanOutBeforeIncreaseStaysStopped(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "shot"})

	clock.Advance(time.Second)
	assert.True(t, s.ApplyAction(Action{Kind: TimerIncrease, ID: "shot"}))
	v := viewOf(t, s, "shot")
	assert.Equal(t, "1.0", *v.Text)
	assert.False(t, *v.Running)
}

func TestTimerResetStoppedAtDefault(t *testing.T) {
	s, _ := newTestState(t)
	assert.False(t, s.ApplyAction(Action{Kind: TimerReset, ID: "clock"}))

	s.ApplyAction(Action{Kind: TimerIncrease, ID: "clock"})
	assert.True(t, s.ApplyAction(Action{Kind: TimerReset, ID: "clock"}))
	assert.Equal(t, "00:10", textOf(t, s, "clock"))
}

func TestImageToggleWraps(t *testing.T) {
	s, _ := newTestState(t)

	assert.True(t, s.ApplyAction(Action{Kind: ImageToggleBackward, ID: "arrow"}))
	v := viewOf(t, s, "arrow")
	assert.Equal(t, 2, *v.Index)
	assert.Equal(t, "/img/c.png", *v.Source)

	assert.True(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "arrow"}))
	assert.Equal(t, 0, *viewOf(t, s, "arrow").Index)

	assert.True(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "arrow"}))
	assert.True(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "arrow"}))
	assert.Equal(t, 2, *viewOf(t, s, "arrow").Index)
	assert.True(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "arrow"}))
	assert.Equal(t, 0, *viewOf(t, s, "arrow").Index)

	assert.False(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "single"}), "one source cannot change")
}

func TestImageToggleWithoutSources(t *testing.T) {
	s := New(nil)
	s.Replace(&schema.Scoreboard{Components: []schema.Component{
		{ID: "empty", Kind: &schema.ImageToggle{}},
	}})

	assert.False(t, s.ApplyAction(Action{Kind: ImageToggleForward, ID: "empty"}))
	v := viewOf(t, s, "empty")
	assert.Nil(t, v.Source)
	assert.Nil(t, v.Index)
}

func TestSetLabelValue(t *testing.T) {
	s, _ := newTestState(t)

	changed, err := s.SetLabelValue("title", "Semi-finals")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Semi-finals", textOf(t, s, "title"))

	changed, err = s.SetLabelValue("title", "Semi-finals")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.SetLabelValue("title", "")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSetLabelValue_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		value string
	}{
		{"newline on editable", "title", "a\nb"},
		{"carriage return on editable", "title", "a\rb"},
		{"newline on read-only", "venue", "a\nb"},
		{"newline on unknown", "nope", "a\nb"},
		{"read-only", "venue", "Stadium"},
		{"unknown id", "nope", "x"},
		{"not a label", "home", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestState(t)
			before := s.Snapshot()

			changed, err := s.SetLabelValue(tt.id, tt.value)
			assert.False(t, changed)
			assert.True(t, errors.IsKind(err, errors.ErrRuntime), "got %v", err)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestSetImageSource(t *testing.T) {
	s, _ := newTestState(t)

	changed, err := s.SetImageSource("logo", "/img/logo.png")
	require.NoError(t, err)
	assert.False(t, changed, "same as configured")

	changed, err = s.SetImageSource("logo", "/img/alt.png")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "/img/alt.png", *viewOf(t, s, "logo").Source)

	for _, id := range []string{"arrow", "nope"} {
		_, err = s.SetImageSource(id, "/img/x.png")
		assert.True(t, errors.IsKind(err, errors.ErrRuntime))
	}
	_, err = s.SetImageSource("logo", " ")
	assert.True(t, errors.IsKind(err, errors.ErrRuntime))

	s.Replace(testSchema())
	assert.Equal(t, "/img/logo.png", *viewOf(t, s, "logo").Source, "override cleared on replace")
}

func TestReplaceResetsEverything(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})
	s.ApplyAction(Action{Kind: ImageToggleForward, ID: "arrow"})
	_, err := s.SetLabelValue("title", "changed")
	require.NoError(t, err)
	clock.Advance(3 * time.Second)

	fresh := New(newFakeClock())
	fresh.Replace(testSchema())

	s.Replace(testSchema())
	assert.Equal(t, fresh.Snapshot(), s.Snapshot())
}

func TestReplaceDropsRemovedComponents(t *testing.T) {
	s, _ := newTestState(t)
	s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})

	s.Replace(&schema.Scoreboard{Global: schema.GlobalSettings{BackgroundColor: "#000000"}})
	assert.Empty(t, s.Snapshot().Components)
	assert.False(t, s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"}))
}

func TestCheckpointRestore(t *testing.T) {
	s, clock := newTestState(t)
	original := s.Schema()
	s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})
	_, err := s.SetImageSource("logo", "/img/alt.png")
	require.NoError(t, err)

	cp := s.Checkpoint()
	s.Replace(&schema.Scoreboard{})
	s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})

	clock.Advance(2 * time.Second)
	s.Restore(cp)

	assert.Same(t, original, s.Schema())
	assert.Equal(t, "4", textOf(t, s, "home"))
	assert.Equal(t, "/img/alt.png", *viewOf(t, s, "logo").Source)
	assert.True(t, s.TickTimers())
	assert.Equal(t, "00:08", textOf(t, s, "clock"), "time between checkpoint and restore still counts")

	// the checkpoint is not aliased by the restored state
	s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})
	s.Restore(cp)
	assert.Equal(t, "4", textOf(t, s, "home"))
}

func TestConcurrentAccess(t *testing.T) {
	s, clock := newTestState(t)
	s.ApplyAction(Action{Kind: TimerStart, ID: "clock"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch (i + j) % 5 {
				case 0:
					s.ApplyAction(Action{Kind: NumberIncrease, ID: "home"})
				case 1:
					clock.Advance(time.Millisecond)
					s.TickTimers()
				case 2:
					_ = s.Snapshot()
				case 3:
					_, _ = s.SetLabelValue("title", "x")
				case 4:
					s.Replace(testSchema())
				}
			}
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Components, len(testSchema().Components))
}
