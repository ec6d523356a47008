package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/domain/registration"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts student-written text such as testimonies and notes.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var funcMap = template.FuncMap{
	"renderMarkdown": renderMarkdown,
	"join":           strings.Join,
	"stepTitle":      registration.StepTitle,
	"steps": func() []int {
		s := make([]int, registration.TotalSteps)
		for i := range s {
			s[i] = i + 1
		}
		return s
	},
}

// pages holds one template set per page, each a clone of the layout.
type pages struct {
	byName map[string]*template.Template
}

func loadPages() (*pages, error) {
	layout, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	p := &pages{byName: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		p.byName[base] = clone
	}
	return p, nil
}

// pageData is what every page template receives.
type pageData struct {
	Principal middleware.Principal
	SignedIn  bool
	CSRFField template.HTML
	Title     string
	Error     string
	Data      any
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written response.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any, errMsg string) {
	tpl, ok := a.pages.byName[page]
	if !ok {
		internalError(w, fmt.Errorf("unknown page %q", page))
		return
	}
	pd := pageData{Title: title, Data: data, Error: errMsg, CSRFField: csrf.TemplateField(r)}
	pd.Principal, pd.SignedIn = middleware.PrincipalFrom(r.Context())

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, pd); err != nil {
		slog.Error("render_failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
