package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kai-65537/AOLOT-scoreboard/internal/app"
	"github.com/kai-65537/AOLOT-scoreboard/internal/browser"
	"github.com/kai-65537/AOLOT-scoreboard/internal/config"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
	"github.com/kai-65537/AOLOT-scoreboard/web"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the overlay and control page",
		Long: `Load a layout document and serve the overlay at / and the control page
at /control. Without a file, the default document is looked up in the
working directory and its parent.

Settings can also come from SCOREBOARD_* environment variables or a
scoreboard-settings.yaml / .toml file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServe,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(config.NewViper(), cmd.Flags())
	if err != nil {
		return err
	}

	interactive := settings.Keyboard && term.IsTerminal(int(os.Stdin.Fd()))

	var logOut io.Writer = os.Stderr
	if interactive {
		// raw mode turns off output post-processing
		logOut = crlfWriter{w: os.Stderr}
	}
	appLog := logger.NewWithWriter(logOut, logger.ParseLevel(settings.LogLevel))

	a, err := app.New(appLog, *settings, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if err := a.LoadInitial(ctx, path); err != nil {
		if path != "" {
			return err
		}
		appLog.Error("Failed to load configuration", "error", err)
	}

	_, controlURL := a.URLs()

	if interactive {
		router := hotkeys.NewRouter("terminal")
		if err := a.AttachInput(router); err != nil {
			return err
		}
		l := &terminalListener{
			out:      crlfWriter{w: os.Stdout},
			router:   router,
			dispatch: a.Service().Dispatch,
			quit:     stop,
			log:      appLog,
		}
		restore, err := makeRaw(os.Stdin)
		if err != nil {
			appLog.Warn("Terminal hotkeys unavailable", "error", err)
		} else {
			defer restore()
			printHelp(l.out, router)
			go l.run(ctx, os.Stdin)
		}
	}

	if settings.OpenBrowser {
		go func() {
			time.Sleep(200 * time.Millisecond)
			if err := browser.Open(controlURL); err != nil {
				appLog.Warn("Failed to open browser", "error", err)
			}
		}()
	}

	return a.Run(ctx)
}

func makeRaw(f *os.File) (func(), error) {
	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(fd, old) }, nil
}
