package web

import (
	"html/template"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedTemplatesExist(t *testing.T) {
	templatesFS := GetTemplatesFS()

	requiredFiles := []string{OverlayTemplate, ControlTemplate, LoginTemplate}

	for _, file := range requiredFiles {
		_, err := fs.Stat(templatesFS, file)
		if err != nil {
			t.Errorf("required template %q not found: %v", file, err)
		}
	}
}

func TestEmbeddedStaticFilesExist(t *testing.T) {
	staticFS := GetStaticFS()

	requiredFiles := []string{
		"css/overlay.css",
		"css/control.css",
		"js/overlay.js",
		"js/control.js",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(staticFS, file)
		if err != nil {
			t.Errorf("required static file %q not found: %v", file, err)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	templatesFS := GetTemplatesFS()

	for _, name := range []string{OverlayTemplate, ControlTemplate, LoginTemplate} {
		tmpl, err := template.ParseFS(templatesFS, name)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", name, err)
		}
		var out strings.Builder
		if err := tmpl.Execute(&out, struct {
			Title, WSPath, Error string
			Secure               bool
		}{Title: "Scoreboard", WSPath: "/ws"}); err != nil {
			t.Fatalf("failed to execute %s: %v", name, err)
		}
		if !strings.Contains(out.String(), "Scoreboard") {
			t.Errorf("%s: expected title in output", name)
		}
	}
}

func TestOverlayScriptUsesImageEndpoint(t *testing.T) {
	content, err := fs.ReadFile(GetStaticFS(), "js/overlay.js")
	if err != nil {
		t.Fatalf("failed to read js/overlay.js: %v", err)
	}
	for _, want := range []string{"/api/images/", "snapshot"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected overlay.js to reference %q", want)
		}
	}
}
