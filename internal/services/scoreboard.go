package services

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kai-65537/AOLOT-scoreboard/internal/compiler"
	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/errors"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
	"github.com/kai-65537/AOLOT-scoreboard/internal/models"
	"github.com/kai-65537/AOLOT-scoreboard/internal/repository"
	"github.com/kai-65537/AOLOT-scoreboard/internal/schema"
)

const settingHotkeysPaused = "hotkeys_paused"

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastSnapshot(snap engine.Snapshot)
	BroadcastError(message string)
}

// LoadResult summarises an activated configuration
type LoadResult struct {
	Path       string `json:"path,omitempty"`
	Components int    `json:"components"`
	Hotkeys    int    `json:"hotkeys"`
}

// ScoreboardService owns the load/reload lifecycle and routes triggers
// into the engine. Compilation happens outside any lock; activation is
// serialised so two loads never interleave.
type ScoreboardService struct {
	log         logger.Logger
	state       *engine.State
	repo        repository.FullRepository
	broadcaster Broadcaster

	loadMu sync.Mutex

	mu         sync.RWMutex
	registrars []hotkeys.Registrar
	table      *hotkeys.Table
	paused     bool
	activePath string
	baseDir    string
}

// NewScoreboardService creates a new ScoreboardService. repo may be nil,
// which disables the load history.
func NewScoreboardService(log logger.Logger, state *engine.State, repo repository.FullRepository) *ScoreboardService {
	return &ScoreboardService{
		log:   log,
		state: state,
		repo:  repo,
		table: hotkeys.Empty,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ScoreboardService) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// AddRegistrar adds a trigger source. It receives the current table
// immediately unless hotkeys are paused.
func (s *ScoreboardService) AddRegistrar(r hotkeys.Registrar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		if err := r.Register(s.table); err != nil {
			return errors.Wrap(err, errors.ErrConflict, fmt.Sprintf("registering hotkeys with %s", r.Name()))
		}
	}
	s.registrars = append(s.registrars, r)
	return nil
}

// RestoreSettings applies persisted service settings
func (s *ScoreboardService) RestoreSettings(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	value, err := s.repo.GetSetting(ctx, settingHotkeysPaused)
	if err == repository.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	paused, err := strconv.ParseBool(value)
	if err != nil {
		s.log.Warn("Ignoring invalid stored setting", "key", settingHotkeysPaused, "value", value)
		return nil
	}
	return s.setPaused(paused)
}

// ==================== Loading ====================

// LoadFile compiles and activates the document at path
func (s *ScoreboardService) LoadFile(ctx context.Context, path string) (*LoadResult, error) {
	return s.loadFile(ctx, path, models.SourceFile)
}

// LoadText compiles and activates inline document text. Relative image
// paths resolve against the working directory.
func (s *ScoreboardService) LoadText(ctx context.Context, text string) (*LoadResult, error) {
	sb, err := compiler.CompileString(text)
	if err != nil {
		s.recordFailure(ctx, models.SourceText, "", err)
		return nil, err
	}
	return s.activate(ctx, sb, models.SourceText, "", "")
}

// Reload recompiles the active configuration file
func (s *ScoreboardService) Reload(ctx context.Context) (*LoadResult, error) {
	return s.reload(ctx, models.SourceReload)
}

// ReloadFromWatch is Reload triggered by a file change
func (s *ScoreboardService) ReloadFromWatch(ctx context.Context) (*LoadResult, error) {
	return s.reload(ctx, models.SourceWatch)
}

func (s *ScoreboardService) reload(ctx context.Context, source models.LoadSource) (*LoadResult, error) {
	path := s.ActivePath()
	if path == "" {
		return nil, errors.Conflict("no configuration file is loaded")
	}
	return s.loadFile(ctx, path, source)
}

func (s *ScoreboardService) loadFile(ctx context.Context, path string, source models.LoadSource) (*LoadResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, fmt.Sprintf("resolving config path %s", path))
	}
	sb, err := compiler.CompileFile(absPath)
	if err != nil {
		s.recordFailure(ctx, source, absPath, err)
		return nil, err
	}
	return s.activate(ctx, sb, source, absPath, filepath.Dir(absPath))
}

func (s *ScoreboardService) activate(ctx context.Context, sb *schema.Scoreboard, source models.LoadSource, path, baseDir string) (*LoadResult, error) {
	if baseDir == "" {
		if wd, err := filepath.Abs("."); err == nil {
			baseDir = wd
		}
	}

	table, err := s.ApplySchema(sb, path, baseDir)
	if err != nil {
		s.recordFailure(ctx, source, path, err)
		return nil, err
	}

	result := &LoadResult{Path: path, Components: len(sb.Components), Hotkeys: table.Len()}
	s.record(ctx, models.ConfigLoad{
		Source:     source,
		Path:       path,
		Success:    true,
		Components: result.Components,
		Hotkeys:    result.Hotkeys,
	})
	s.log.Info("Configuration loaded", "source", source, "path", path,
		"components", result.Components, "hotkeys", result.Hotkeys)
	s.broadcastSnapshot()
	return result, nil
}

// ApplySchema replaces the engine schema and re-registers triggers as
// one step. A trigger table that cannot be built rejects sb before the
// engine is touched. If registration fails, the previous schema, runtime
// values and registrations are restored.
func (s *ScoreboardService) ApplySchema(sb *schema.Scoreboard, path, baseDir string) (*hotkeys.Table, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	table, err := hotkeys.Build(engine.CollectHotkeys(sb))
	if err != nil {
		return nil, err
	}

	checkpoint := s.state.Checkpoint()
	s.state.Replace(sb)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused {
		if err := s.registerLocked(table); err != nil {
			s.log.Warn("Hotkey registration failed, rolling back", "error", err)
			s.state.Restore(checkpoint)
			if rerr := s.registerLocked(s.table); rerr != nil {
				s.log.Error("Failed to restore previous hotkeys", "error", rerr)
			}
			return nil, err
		}
	}

	s.table = table
	s.activePath = path
	s.baseDir = baseDir
	return table, nil
}

// registerLocked must be called with mu held
func (s *ScoreboardService) registerLocked(table *hotkeys.Table) error {
	for _, r := range s.registrars {
		if err := r.Register(table); err != nil {
			return errors.Wrap(err, errors.ErrConflict, fmt.Sprintf("registering hotkeys with %s", r.Name()))
		}
	}
	return nil
}

// ==================== Triggers ====================

// Dispatch applies an action and notifies clients when something changed
func (s *ScoreboardService) Dispatch(action engine.Action) bool {
	changed := s.state.ApplyAction(action)
	s.log.Debug("Action applied", "action", action.String(), "changed", changed)
	if changed {
		s.broadcastSnapshot()
	}
	return changed
}

// Trigger dispatches the action bound to a keyboard or gamepad shortcut.
// Paused hotkeys ignore every trigger.
func (s *ScoreboardService) Trigger(shortcut string) (bool, error) {
	s.mu.RLock()
	paused, table := s.paused, s.table
	s.mu.RUnlock()

	if paused {
		return false, nil
	}
	action, ok := table.Lookup(shortcut)
	if !ok {
		s.log.Debug("Unbound shortcut", "shortcut", shortcut)
		return false, errors.NotFoundf("no action is bound to %s", shortcut)
	}
	return s.Dispatch(action), nil
}

// TriggerGamepad dispatches the action bound to a gamepad button
func (s *ScoreboardService) TriggerGamepad(button string) (bool, error) {
	if !schema.IsGamepadButton(button) {
		return false, errors.InvalidInputf("unknown gamepad button '%s'", button)
	}
	return s.Trigger(schema.GamepadPrefix + button)
}

// SetHotkeysPaused clears every registration while paused and restores
// the current table when resumed
func (s *ScoreboardService) SetHotkeysPaused(ctx context.Context, paused bool) error {
	if err := s.setPaused(paused); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.SetSetting(ctx, settingHotkeysPaused, strconv.FormatBool(paused)); err != nil {
			s.log.Warn("Failed to persist hotkey pause", "error", err)
		}
	}
	return nil
}

func (s *ScoreboardService) setPaused(paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if paused == s.paused {
		return nil
	}
	if paused {
		for _, r := range s.registrars {
			if err := r.Clear(); err != nil {
				return errors.Wrap(err, errors.ErrInternal, fmt.Sprintf("clearing hotkeys of %s", r.Name()))
			}
		}
	} else if err := s.registerLocked(s.table); err != nil {
		return err
	}
	s.paused = paused
	s.log.Info("Hotkeys toggled", "paused", paused)
	return nil
}

// HotkeysPaused reports whether triggers are being ignored
func (s *ScoreboardService) HotkeysPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

// Hotkeys returns the active bindings in canonical form
func (s *ScoreboardService) Hotkeys() []engine.HotkeyBinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Bindings()
}

// ==================== Mutations ====================

// SetLabel changes the text of an editable label
func (s *ScoreboardService) SetLabel(id, value string) (bool, error) {
	changed, err := s.state.SetLabelValue(id, value)
	if err != nil {
		return false, err
	}
	if changed {
		s.broadcastSnapshot()
	}
	return changed, nil
}

// SetImageSource overrides an image path. Relative paths resolve
// against the active document's directory; only image files are accepted.
func (s *ScoreboardService) SetImageSource(id, source string) (bool, error) {
	s.mu.RLock()
	baseDir := s.baseDir
	s.mu.RUnlock()

	if source != "" {
		if !isImagePath(source) {
			return false, errors.Runtimef("'%s' source: %s is not an image file", id, source)
		}
		source = compiler.ResolveSource(baseDir, source)
	}
	changed, err := s.state.SetImageSource(id, source)
	if err != nil {
		return false, err
	}
	if changed {
		s.broadcastSnapshot()
	}
	return changed, nil
}

// ==================== Queries ====================

// Snapshot returns the current display state
func (s *ScoreboardService) Snapshot() engine.Snapshot {
	return s.state.Snapshot()
}

// TickTimers advances running timers; the caller broadcasts on change
func (s *ScoreboardService) TickTimers() bool {
	return s.state.TickTimers()
}

// ImageFile returns the file shown by an image component, for serving to
// the overlay. The file must be an image inside the active document's
// directory; anything else is reported as not found.
func (s *ScoreboardService) ImageFile(id string) (string, error) {
	s.mu.RLock()
	baseDir := s.baseDir
	s.mu.RUnlock()

	for _, c := range s.state.Snapshot().Components {
		if c.ID != id {
			continue
		}
		if c.Source == nil || *c.Source == "" || baseDir == "" {
			break
		}
		if !isImagePath(*c.Source) {
			break
		}
		path, ok := within(baseDir, *c.Source)
		if !ok {
			s.log.Warn("Refusing image outside the configuration directory", "id", id, "source", *c.Source)
			break
		}
		return path, nil
	}
	return "", errors.NotFoundf("no image for component %s", id)
}

// ActivePath returns the loaded configuration file, empty for inline text
func (s *ScoreboardService) ActivePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activePath
}

// History returns recent load attempts, newest first
func (s *ScoreboardService) History(ctx context.Context, limit int) ([]models.ConfigLoad, error) {
	if s.repo == nil {
		return []models.ConfigLoad{}, nil
	}
	return s.repo.ListLoads(ctx, limit)
}

// ==================== Helpers ====================

func (s *ScoreboardService) recordFailure(ctx context.Context, source models.LoadSource, path string, err error) {
	s.log.Warn("Configuration rejected", "source", source, "path", path, "error", err)
	s.record(ctx, models.ConfigLoad{
		Source:       source,
		Path:         path,
		Success:      false,
		ErrorKind:    errors.KindOf(err).String(),
		ErrorMessage: err.Error(),
	})

	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	if b != nil {
		b.BroadcastError(err.Error())
	}
}

func (s *ScoreboardService) record(ctx context.Context, load models.ConfigLoad) {
	if s.repo == nil {
		return
	}
	load.LoadedAt = time.Now()
	if err := s.repo.RecordLoad(ctx, load); err != nil {
		s.log.Warn("Failed to record configuration load", "error", err)
	}
}

func (s *ScoreboardService) broadcastSnapshot() {
	s.mu.RLock()
	b := s.broadcaster
	s.mu.RUnlock()
	if b != nil {
		b.BroadcastSnapshot(s.state.Snapshot())
	}
}

func isImagePath(path string) bool {
	return strings.HasPrefix(mime.TypeByExtension(strings.ToLower(filepath.Ext(path))), "image/")
}

// within resolves symlinks in path and reports whether the result lies
// under dir
func within(dir, path string) (string, bool) {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return resolved, true
}
