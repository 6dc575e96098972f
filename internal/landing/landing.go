package landing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/server"
	"github.com/blogseo/blogseo/internal/settings"
)

//go:embed web
var webFS embed.FS

// Page serves the marketing page and its static assets.
type Page struct {
	tmpl     *template.Template
	features template.HTML
	themes   *settings.ThemeService
	static   http.Handler
}

type pageData struct {
	Theme            settings.Theme
	Features         template.HTML
	ValidationNotice string
}

// New parses the embedded template and renders the feature panel.
func New(themes *settings.ThemeService) (*Page, error) {
	tmpl, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	src, err := webFS.ReadFile("web/content/features.md")
	if err != nil {
		return nil, fmt.Errorf("reading features: %w", err)
	}
	features, err := RenderMarkdown(src)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(webFS, "web/static")
	if err != nil {
		return nil, err
	}

	return &Page{
		tmpl:     tmpl,
		features: features,
		themes:   themes,
		static:   http.StripPrefix("/static/", http.FileServer(http.FS(static))),
	}, nil
}

// RenderMarkdown converts markdown to HTML with GFM tables, task lists and
// syntax highlighted code blocks.
func RenderMarkdown(src []byte) (template.HTML, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RegisterRoutes mounts the page and static assets onto the given router.
func (p *Page) RegisterRoutes(r chi.Router) {
	r.Get("/", p.ServeIndex)
	r.Handle("/static/*", p.static)
}

// ServeIndex renders the page with the caller's stored theme.
func (p *Page) ServeIndex(w http.ResponseWriter, r *http.Request) {
	theme := settings.DefaultTheme
	if p.themes != nil {
		t, err := p.themes.Current(r.Context(), server.ClientID(r))
		if err != nil {
			log.Printf("landing: loading theme: %v", err)
		} else {
			theme = t
		}
	}

	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, pageData{
		Theme:            theme,
		Features:         p.features,
		ValidationNotice: optimizer.ValidationNotice,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
