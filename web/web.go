// Package web embeds the browser side of the scoreboard: the overlay page
// a streaming tool captures, the operator control page and its login
// form, plus their scripts and styles.
package web

import (
	"embed"
	"io/fs"
)

// Page templates, parsed by the handlers package
const (
	OverlayTemplate = "overlay.html"
	ControlTemplate = "control.html"
	LoginTemplate   = "login.html"
)

//go:embed templates/overlay.html templates/control.html templates/login.html
var templatesFS embed.FS

//go:embed static/css static/js
var staticFS embed.FS

// GetTemplatesFS returns the page templates rooted at the template names
func GetTemplatesFS() fs.FS {
	return mustSub(templatesFS, "templates")
}

// GetStaticFS returns the assets served under /static/
func GetStaticFS() fs.FS {
	return mustSub(staticFS, "static")
}

// fs.Sub only fails on an invalid path, and both roots are constants
func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
