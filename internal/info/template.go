package info

import (
	_ "embed"
	"html/template"
)

//go:embed assets/swagger.html
var docsHTMLSwaggerUI string

//go:embed assets/redoc.html
var docsHTMLRedoc string

var (
	templateSwaggerUI = template.Must(template.New("docs-swagger-ui").Parse(docsHTMLSwaggerUI))
	templateRedoc     = template.Must(template.New("docs-redoc").Parse(docsHTMLRedoc))
)
