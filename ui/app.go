package ui

import (
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App represents the browser-facing shell: a landing page with the usage
// instructions and an upload form that talks to the API server. The heavy
// lifting all happens behind the JSON API; this stays a thin page server.
type App struct {
	router   *chi.Mux
	cfg      AppConfig
	index    *template.Template
	helpHTML template.HTML
}

// AppConfig holds UI shell configuration
type AppConfig struct {
	Port    string
	APIBase string
}

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>BrineViz - Water Quality Data Visualiser</title>
</head>
<body>
  <h1>Water Quality Data Visualiser</h1>
  <form action="{{.APIBase}}/api/sessions/upload" method="post" enctype="multipart/form-data">
    <label for="dataset">Upload your spreadsheet (.csv, .xls, .xlsx)</label>
    <input type="file" id="dataset" name="dataset" accept=".csv,.xls,.xlsx">
    <button type="submit">Upload</button>
  </form>
  <aside>{{.Help}}</aside>
</body>
</html>
`

// NewApp creates the UI shell application
func NewApp(cfg AppConfig) (*App, error) {
	tmpl, err := template.New("index").Parse(indexPage)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	app := &App{
		router:   chi.NewRouter(),
		cfg:      cfg,
		index:    tmpl,
		helpHTML: template.HTML(renderHelpHTML()),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/help", a.handleHelp)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.cfg.Port
	log.Printf("Starting BrineViz UI shell on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	data := struct {
		APIBase string
		Help    template.HTML
	}{
		APIBase: a.cfg.APIBase,
		Help:    a.helpHTML,
	}
	if err := a.index.Execute(w, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(a.helpHTML))
}
