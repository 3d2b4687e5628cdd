package ui

import (
	"embed"
	"html/template"
)

//go:embed resources/*.html
var resources embed.FS

var templates = template.Must(template.ParseFS(resources, "resources/*.html"))
