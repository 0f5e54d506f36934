package view

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"github.com/cuihairu/arcadehub/internal/ui"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html.tmpl").Funcs(template.FuncMap{
	"playURL":       PlayURL,
	"closeURL":      HomeURL,
	"frameAllow":    func() string { return FrameAllow },
	"frameSandbox":  func() string { return FrameSandbox },
	"frameReferrer": func() string { return FrameReferrerPolicy },
}).ParseFS(templateFS, "templates/page.html.tmpl"))

// HTML renders the server-side page.
type HTML struct{}

func (HTML) ContentType() string { return "text/html; charset=utf-8" }

func (HTML) Render(w io.Writer, p ui.Page) error {
	return pageTemplate.Execute(w, p)
}

// PlayURL links to the player for id, keeping the search query.
func PlayURL(id, query string) string {
	u := url.URL{Path: "/play/" + id}
	if query != "" {
		u.RawQuery = url.Values{"q": {query}}.Encode()
	}
	return u.String()
}

// HomeURL links to the grid with query applied.
func HomeURL(query string) string {
	if query == "" {
		return "/"
	}
	return "/?" + url.Values{"q": {query}}.Encode()
}
