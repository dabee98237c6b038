package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/kai-65537/AOLOT-scoreboard/internal/engine"
	"github.com/kai-65537/AOLOT-scoreboard/internal/hotkeys"
	"github.com/kai-65537/AOLOT-scoreboard/internal/logger"
)

// terminalListener turns raw terminal input into scoreboard actions
type terminalListener struct {
	out      io.Writer
	router   *hotkeys.Router
	dispatch func(engine.Action) bool
	quit     func()
	log      logger.Logger
}

// run reads until in fails, ctx ends or Ctrl+C is pressed
func (l *terminalListener) run(ctx context.Context, in io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		if n > 0 && !l.handle(buf[:n]) {
			return
		}
		if err != nil || ctx.Err() != nil {
			return
		}
	}
}

// handle processes one read and reports whether to keep listening
func (l *terminalListener) handle(input []byte) bool {
	for _, shortcut := range hotkeys.DecodeTerminal(input) {
		if shortcut == "Ctrl+C" {
			fmt.Fprintf(l.out, "%sShutting down server...%s\n", yellow, reset)
			l.quit()
			return false
		}
		if action, ok := l.router.Resolve(shortcut); ok {
			l.dispatch(action)
			continue
		}

		switch shortcut {
		case "?":
			printHelp(l.out, l.router)
		default:
			l.log.Debug("Unbound shortcut", "shortcut", shortcut)
		}
	}
	return true
}

// printHelp lists the active bindings
func printHelp(out io.Writer, router *hotkeys.Router) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "\n%s%s  Hotkeys:%s\n", bold, green, reset)
	bindings := router.Table().Bindings()
	if len(bindings) == 0 {
		fmt.Fprintf(&b, "    (none bound)\n")
	}
	for _, binding := range bindings {
		fmt.Fprintf(&b, "    %s%-22s%s %s\n", cyan, binding.Shortcut, reset, binding.Action)
	}
	fmt.Fprintf(&b, "    %s%-22s%s quit\n", cyan, "Ctrl+C", reset)
	fmt.Fprintf(&b, "    %s%-22s%s show this help\n\n", cyan, "?", reset)
	out.Write(b.Bytes())
}

// crlfWriter translates LF to CRLF for terminals in raw mode
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
