// Package browser opens the control page in the user's browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Commander starts external processes (replaced in tests)
type Commander interface {
	Start(name string, args ...string) error
}

// RealCommander starts the command without waiting for it
type RealCommander struct{}

func (RealCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener launches URLs for one platform
type Opener struct {
	Commander Commander
	GOOS      string
	// Override is a browser command taking the URL as its last argument,
	// typically from $BROWSER. It wins over the platform default.
	Override string
}

// Default returns an Opener for the running platform honouring $BROWSER
func Default() *Opener {
	return &Opener{
		Commander: RealCommander{},
		GOOS:      runtime.GOOS,
		Override:  os.Getenv("BROWSER"),
	}
}

// Open opens url with the platform default browser
func Open(url string) error {
	return Default().Open(url)
}

// Open launches url
func (o *Opener) Open(url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("refusing to open non-http URL %q", url)
	}
	name, args, err := o.command(url)
	if err != nil {
		return err
	}
	if err := o.Commander.Start(name, args...); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	return nil
}

func (o *Opener) command(url string) (string, []string, error) {
	if fields := strings.Fields(o.Override); len(fields) > 0 {
		return fields[0], append(fields[1:], url), nil
	}

	switch o.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", o.GOOS)
	}
}
