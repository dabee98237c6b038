package browser

import (
	"fmt"
	"strings"
	"testing"
)

// mockCommander records command executions for testing
type mockCommander struct {
	lastCommand string
	lastArgs    []string
	calls       int
	startError  error
}

func (m *mockCommander) Start(name string, args ...string) error {
	m.calls++
	m.lastCommand = name
	m.lastArgs = args
	return m.startError
}

const controlURL = "http://192.168.1.20:8081/control"

func TestOpener_Platforms(t *testing.T) {
	tests := []struct {
		goos    string
		command string
		args    []string
	}{
		{"linux", "xdg-open", []string{controlURL}},
		{"freebsd", "xdg-open", []string{controlURL}},
		{"darwin", "open", []string{controlURL}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", controlURL}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			mock := &mockCommander{}
			o := &Opener{Commander: mock, GOOS: tt.goos}

			if err := o.Open(controlURL); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if mock.lastCommand != tt.command {
				t.Errorf("expected command %q, got %q", tt.command, mock.lastCommand)
			}
			if strings.Join(mock.lastArgs, " ") != strings.Join(tt.args, " ") {
				t.Errorf("expected args %v, got %v", tt.args, mock.lastArgs)
			}
		})
	}
}

func TestOpener_Override(t *testing.T) {
	mock := &mockCommander{}
	o := &Opener{Commander: mock, GOOS: "linux", Override: "firefox --new-window"}

	if err := o.Open(controlURL); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mock.lastCommand != "firefox" {
		t.Errorf("expected firefox, got %q", mock.lastCommand)
	}
	if len(mock.lastArgs) != 2 || mock.lastArgs[0] != "--new-window" || mock.lastArgs[1] != controlURL {
		t.Errorf("unexpected args %v", mock.lastArgs)
	}
}

func TestOpener_UnsupportedPlatform(t *testing.T) {
	mock := &mockCommander{}
	o := &Opener{Commander: mock, GOOS: "plan9"}

	err := o.Open(controlURL)
	if err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected unsupported platform error, got: %v", err)
	}
	if mock.calls != 0 {
		t.Error("expected no command to be started")
	}
}

func TestOpener_RejectsNonHTTP(t *testing.T) {
	mock := &mockCommander{}
	o := &Opener{Commander: mock, GOOS: "linux"}

	for _, url := range []string{"file:///etc/passwd", "javascript:alert(1)", ""} {
		if err := o.Open(url); err == nil {
			t.Errorf("expected %q to be rejected", url)
		}
	}
	if mock.calls != 0 {
		t.Error("expected no command to be started")
	}
}

func TestOpener_StartError(t *testing.T) {
	mock := &mockCommander{startError: fmt.Errorf("not installed")}
	o := &Opener{Commander: mock, GOOS: "darwin"}

	err := o.Open(controlURL)
	if err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Errorf("expected wrapped start error, got: %v", err)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("BROWSER", "lynx")
	o := Default()

	if _, ok := o.Commander.(RealCommander); !ok {
		t.Error("expected RealCommander")
	}
	if o.Override != "lynx" {
		t.Errorf("expected override from $BROWSER, got %q", o.Override)
	}
}
