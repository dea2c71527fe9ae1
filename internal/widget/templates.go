package widget

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("widget").ParseFS(templateFS, "templates/*.html"))
