// Package web serves the lead enrichment form, JSON API and report downloads.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/config"
	"github.com/sells-group/lead-enricher/internal/enrich"
	"github.com/sells-group/lead-enricher/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	cfg      *config.Config
	runner   *enrich.Runner
	store    store.Store
	defaults enrich.Credentials
	tmpl     *template.Template
}

// New creates a Server. Keys configured on the server are used when a
// request does not supply its own.
func New(cfg *config.Config, runner *enrich.Runner, st store.Store) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, eris.Wrap(err, "web: parse templates")
	}

	return &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		defaults: enrich.Credentials{
			ExtractorKey:  cfg.ExtractorKey(),
			SummarizerKey: cfg.SummarizerKey(),
		},
		tmpl: tmpl,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	// cors treats an empty origin list as "allow all", so the middleware is
	// only mounted when origins are configured.
	if len(s.cfg.Server.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/enrich", s.handleEnrichForm)
	r.Get("/reports/{id}.{ext}", s.handleDownload)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tones", s.handleTones)
		r.Post("/enrich", s.handleEnrichAPI)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Delete("/reports/{id}", s.handleDeleteReport)
	})

	return r
}

// requestLogger logs each request with zap once the response is written.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
