package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kai-65537/AOLOT-scoreboard/internal/auth"
	"github.com/kai-65537/AOLOT-scoreboard/internal/config"
	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/handlers"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
	"github.com/kai-65537/AOLOT-scoreboard/internal/repository"
	"github.com/kai-65537/AOLOT-scoreboard/internal/services"
	"github.com/kai-65537/AOLOT-scoreboard/internal/watcher"
	"github.com/kai-65537/AOLOT-scoreboard/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	settings config.Settings
	repo     *repository.Repository
	service  *services.ScoreboardService
	hub      *websocket.Hub
	handlers *handlers.Handlers
	watcher  *watcher.Watcher

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates and initializes a new application instance. An empty
// settings.DB runs without the load history.
func New(log logger.Logger, settings config.Settings, templatesFS, staticFS fs.FS) (*App, error) {
	var (
		repo     *repository.Repository
		fullRepo repository.FullRepository
	)
	if settings.DB != "" {
		r, err := repository.New(settings.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		repo, fullRepo = r, r
	}

	service := services.NewScoreboardService(log, engine.New(nil), fullRepo)

	hub := websocket.New(log, service)
	hub.Start()
	service.SetBroadcaster(hub)

	h, err := handlers.New(service, templatesFS, handlers.NewStaticServer(staticFS), hub, log)
	if err != nil {
		if repo != nil {
			repo.Close()
		}
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	h.Auth = auth.New(settings.Password)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		log:      log,
		settings: settings,
		repo:     repo,
		service:  service,
		hub:      hub,
		handlers: h,
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := service.RestoreSettings(ctx); err != nil {
		log.Warn("Failed to restore settings", "error", err)
	}

	if settings.Watch {
		w, err := watcher.New(log, service, settings.WatchDebounce)
		if err != nil {
			log.Warn("File watching unavailable", "error", err)
		} else {
			a.watcher = w
		}
	}

	return a, nil
}

// Service returns the scoreboard service
func (a *App) Service() *services.ScoreboardService {
	return a.service
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// AttachInput registers an in-process trigger source (such as the
// terminal listener) with the service
func (a *App) AttachInput(r hotkeys.Registrar) error {
	return a.service.AddRegistrar(r)
}

// LoadInitial activates the first document found: path if given, then
// the default document in the working directory or its parent, then the
// most recent successful load if it came from a file that still exists.
// Finding nothing is not an error.
func (a *App) LoadInitial(ctx context.Context, path string) error {
	if path != "" {
		_, err := a.service.LoadFile(ctx, path)
		return err
	}

	cwd, err := os.Getwd()
	if err == nil {
		if found, ok := services.DiscoverConfig(cwd, a.settings.DefaultConfig); ok {
			_, err := a.service.LoadFile(ctx, found)
			return err
		}
	}

	if previous := a.previousPath(ctx); previous != "" {
		a.log.Info("Resuming previous configuration", "path", previous)
		_, err := a.service.LoadFile(ctx, previous)
		return err
	}

	a.log.Warn("No configuration loaded", "default", a.settings.DefaultConfig)
	return nil
}

func (a *App) previousPath(ctx context.Context) string {
	if a.repo == nil {
		return ""
	}
	last, err := a.repo.LastSuccessfulLoad(ctx)
	if err != nil || last.Path == "" {
		return ""
	}
	if _, err := os.Stat(last.Path); err != nil {
		return ""
	}
	return last.Path
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
		a.repo = nil
	}
}

// Run starts the timer clock, the file watcher and the HTTP server, and
// blocks until ctx is cancelled or the server fails
func (a *App) Run(ctx context.Context) error {
	go a.hub.StartClock(a.ctx, a.settings.TickInterval)
	if a.watcher != nil {
		go a.watcher.Run(a.ctx)
	}

	srv := &http.Server{
		Addr:              a.settings.Addr(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	overlay, control := a.URLs()
	a.log.Info("Server starting", "addr", srv.Addr)
	a.log.Info("Overlay URL", "url", overlay)
	a.log.Info("Control URL", "url", control)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// URLs returns the overlay and control page addresses as seen from the LAN
func (a *App) URLs() (overlay, control string) {
	host := a.settings.DisplayHost()
	if host == "localhost" {
		host = preferredIP(realNetworkProvider{})
	}
	base := fmt.Sprintf("http://%s:%d", host, a.settings.Port)
	return base + "/", base + "/control"
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags           { return r.iface.Flags }
func (r realInterface) Addrs() ([]net.Addr, error) { return r.iface.Addrs() }

// networkProvider lists interfaces (mocked in tests)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// preferredIP picks the IPv4 address other devices on the LAN are most
// likely to reach: private ranges first, then any non-loopback address,
// then localhost.
func preferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ip := ipv4Of(addr); ip != nil && !ip.IsLoopback() {
				candidates = append(candidates, ip)
			}
		}
	}
	if len(candidates) == 0 {
		return "localhost"
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].IsPrivate() && !candidates[j].IsPrivate()
	})
	return candidates[0].String()
}

func ipv4Of(addr net.Addr) net.IP {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	if ip == nil {
		return nil
	}
	return ip.To4()
}

