// Package fixture renders a recycler dashboard page with the same structure
// as the production frontend: a navbar of nav-link anchors, a row of summary
// cards and a material inventory list. Labels can be removed or hidden one by
// one, and the loading and error states can be reproduced, so checks can be
// exercised against a known page without a live site.
package fixture

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Tile is one summary card
type Tile struct {
	Title string
	Value int
	Unit  string
}

// Material is one inventory row
type Material struct {
	Name      string
	CurrentKg int
	TotalKg   int
}

// Dashboard describes the page to render
type Dashboard struct {
	Links     []string
	Tiles     []Tile
	Materials []Material
	Hidden    []string // labels rendered but hidden by the stylesheet
	Loading   bool     // render the loading spinner instead of the content
	Error     string   // render an error banner instead of the content
}

// Default returns the known-good dashboard. It carries one navigation link
// more than the checks expect.
func Default() Dashboard {
	return Dashboard{
		Links: []string{"Dashboard", "Revenue Page", "Stock", "Phones", "Logs", "Trace History"},
		Tiles: []Tile{
			{Title: "Total Orders", Value: 12},
			{Title: "Pending Orders", Value: 3},
			{Title: "Completed Orders", Value: 9},
			{Title: "Materials Ready", Value: 1450, Unit: "kg"},
		},
		Materials: []Material{
			{Name: "Copper", CurrentKg: 320, TotalKg: 1000},
			{Name: "Silicon", CurrentKg: 210, TotalKg: 1000},
			{Name: "Sand", CurrentKg: 540, TotalKg: 1000},
			{Name: "Plastic", CurrentKg: 275, TotalKg: 1000},
			{Name: "Aluminum", CurrentKg: 105, TotalKg: 1000},
		},
	}
}

// Without returns a copy of d with label removed from every section
func (d Dashboard) Without(label string) Dashboard {
	d.Links = slices.DeleteFunc(slices.Clone(d.Links), func(l string) bool { return l == label })
	d.Tiles = slices.DeleteFunc(slices.Clone(d.Tiles), func(t Tile) bool { return t.Title == label })
	d.Materials = slices.DeleteFunc(slices.Clone(d.Materials), func(m Material) bool { return m.Name == label })
	return d
}

// Hiding returns a copy of d where label is present in the markup but hidden
func (d Dashboard) Hiding(label string) Dashboard {
	d.Hidden = append(slices.Clone(d.Hidden), label)
	return d
}

// Render writes the page to w
func (d Dashboard) Render(w io.Writer) error {
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"hidden": func(label string) bool { return slices.Contains(d.Hidden, label) },
	}).Parse(pageTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, d)
}

// HTML renders the page to a string
func (d Dashboard) HTML() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// Handler serves the rendered page on every path
func Handler(d Dashboard) http.Handler {
	page := d.HTML()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, page)
	})
}

// Router serves the known-good page at "/" and its variants under fixed paths:
// /loading, /error, /missing/{label}, /hidden/{label} and /broken (HTTP 500).
// Request logging goes through chi's logger when logRequests is set.
func Router(logRequests bool) http.Handler {
	r := chi.NewRouter()
	if logRequests {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)

	r.Get("/", Handler(Default()).ServeHTTP)
	r.Get("/loading", Handler(Dashboard{Links: Default().Links, Loading: true}).ServeHTTP)
	r.Get("/error", Handler(Dashboard{Links: Default().Links, Error: "Failed to fetch dashboard data"}).ServeHTTP)
	r.Get("/missing/{label}", func(w http.ResponseWriter, req *http.Request) {
		Handler(Default().Without(label(req))).ServeHTTP(w, req)
	})
	r.Get("/hidden/{label}", func(w http.ResponseWriter, req *http.Request) {
		Handler(Default().Hiding(label(req))).ServeHTTP(w, req)
	})
	r.Get("/broken", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})
	return r
}

func label(r *http.Request) string {
	raw := chi.URLParam(r, "label")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Recycler System</title>
  <style>
    .is-hidden { display: none; }
    .tabs .nav-link { margin-right: 2rem; }
  </style>
</head>
<body>
  <nav class="navbar">
    <div class="brand"><a href="#" class="brand-link">Recycler System</a></div>
    <div class="tabs">
    {{- range .Links}}
      <a href="#" class="nav-link{{if hidden .}} is-hidden{{end}}">{{.}}</a>
    {{- end}}
    </div>
  </nav>
  <section id="dashboard-content">
  {{- if .Loading}}
    <div class="spinner"></div>
    <p class="loading">Loading dashboard data...</p>
  {{- else if .Error}}
    <div class="alert" role="alert"><strong>Error:</strong> <span>{{.Error}}</span></div>
  {{- else}}
    <div class="cards">
    {{- range .Tiles}}
      <div class="card{{if hidden .Title}} is-hidden{{end}}">
        <p class="card-title">{{.Title}}</p>
        <p class="card-value">{{.Value}}{{with .Unit}}<span class="unit">{{.}}</span>{{end}}</p>
      </div>
    {{- end}}
    </div>
    <div class="inventory">
      <h2>Material Inventory</h2>
      {{- range .Materials}}
      <div class="material{{if hidden .Name}} is-hidden{{end}}">
        <span class="material-name">{{.Name}}</span>
        <span class="material-kg">{{.CurrentKg}}kg / {{.TotalKg}}kg</span>
      </div>
      {{- end}}
    </div>
  {{- end}}
  </section>
</body>
</html>
`
