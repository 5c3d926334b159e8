// Package web embeds the HTML templates and static assets for serving
// from the Go binary. Everything the dashboard needs ships in a single
// executable; there is no separate asset pipeline.
//
// Usage in the API server:
//
//	import "github.com/uqurreshi34-dev/cryptopulse-frontend/web"
//	tmpl := web.TemplatesFS()
//	static := web.StaticFS()
package web

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed all:templates
var templates embed.FS

//go:embed all:static
var static embed.FS

// TemplatesFS returns a filesystem rooted at the embedded templates/
// directory, ready for template.ParseFS.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		log.Fatalf("web.TemplatesFS: %v", err)
	}
	return sub
}

// StaticFS returns a filesystem rooted at the embedded static/
// directory, ready for http.FileServerFS.
func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		log.Fatalf("web.StaticFS: %v", err)
	}
	return sub
}
