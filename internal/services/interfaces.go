package services

import (
	"context"

	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
)

// ScoreboardServicer defines the interface for scoreboard operations
type ScoreboardServicer interface {
	LoadFile(ctx context.Context, path string) (*LoadResult, error)
	LoadText(ctx context.Context, text string) (*LoadResult, error)
	Reload(ctx context.Context) (*LoadResult, error)
	ReloadFromWatch(ctx context.Context) (*LoadResult, error)
	Dispatch(action engine.Action) bool
	Trigger(shortcut string) (bool, error)
	TriggerGamepad(button string) (bool, error)
	SetLabel(id, value string) (bool, error)
	SetImageSource(id, source string) (bool, error)
	ImageFile(id string) (string, error)
	SetHotkeysPaused(ctx context.Context, paused bool) error
	HotkeysPaused() bool
	Hotkeys() []engine.HotkeyBinding
	Snapshot() engine.Snapshot
	TickTimers() bool
	ActivePath() string
	History(ctx context.Context, limit int) ([]models.ConfigLoad, error)
	AddRegistrar(r hotkeys.Registrar) error
	SetBroadcaster(b Broadcaster)
}

// Ensure concrete types implement interfaces
var (
	_ ScoreboardServicer = (*ScoreboardService)(nil)
)
