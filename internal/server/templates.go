package server

import (
	"embed"
	"html/template"
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	html = template.Must(template.ParseFS(templateFS, "templates/*.html"))
)
