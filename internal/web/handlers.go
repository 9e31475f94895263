package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/lead-enricher/internal/enrich"
	"github.com/sells-group/lead-enricher/internal/model"
	"github.com/sells-group/lead-enricher/internal/report"
	"github.com/sells-group/lead-enricher/internal/store"
	"github.com/sells-group/lead-enricher/internal/summarize"
)

const maxFormBytes = 1 << 20

// pageData is the input of the index template.
type pageData struct {
	Tones         []summarize.Directive
	Tone          string
	URLs          string
	Error         string
	Extractor     string
	Summarizer    string
	ServerHasKeys bool
	Report        *model.Report
	Formats       []report.Format
}

// enrichRequest is the body of POST /api/enrich.
type enrichRequest struct {
	URLs          []string `json:"urls"`
	Text          string   `json:"text"`
	Tone          string   `json:"tone"`
	ExtractorKey  string   `json:"extractor_key"`
	SummarizerKey string   `json:"summarizer_key"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.page())
}

func (s *Server) handleEnrichForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		data := s.page()
		data.Error = "Could not read the form."
		s.render(w, http.StatusBadRequest, data)
		return
	}

	data := s.page()
	data.URLs = r.PostFormValue("urls")
	data.Tone = r.PostFormValue("tone")

	rep, err := s.runner.Run(r.Context(), enrich.ParseURLs(data.URLs), enrich.Options{
		Directive:   data.Tone,
		Credentials: s.credentials(r.PostFormValue("extractor_key"), r.PostFormValue("summarizer_key")),
	})
	if err != nil {
		status, msg := classify(err)
		data.Error = msg
		s.render(w, status, data)
		return
	}

	if err := s.store.Put(r.Context(), rep); err != nil {
		zap.L().Error("web: store report", zap.Error(err))
		data.Error = "The report could not be saved."
		s.render(w, http.StatusInternalServerError, data)
		return
	}

	data.Report = rep
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleEnrichAPI(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	urls := req.URLs
	if req.Text != "" {
		urls = append(urls, enrich.ParseURLs(req.Text)...)
	}

	rep, err := s.runner.Run(r.Context(), urls, enrich.Options{
		Directive:   req.Tone,
		Credentials: s.credentials(req.ExtractorKey, req.SummarizerKey),
	})
	if err != nil {
		status, msg := classify(err)
		writeError(w, status, msg)
		return
	}

	if err := s.store.Put(r.Context(), rep); err != nil {
		zap.L().Error("web: store report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save report")
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleTones(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Catalog().List())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		zap.L().Error("web: list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list reports")
		return
	}
	if list == nil {
		list = []store.ReportInfo{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ext := chi.URLParam(r, "ext")
	format, err := report.ParseFormat(ext)
	if err != nil || ext == "" {
		http.NotFound(w, r)
		return
	}

	rep, ok := s.lookup(w, r)
	if !ok {
		return
	}

	body, err := report.Encode(format, rep)
	if err != nil {
		zap.L().Error("web: encode download", zap.String("format", string(format)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not encode report")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("web: delete report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not delete report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup loads the report named by the id URL param, writing 404 or 500 on
// failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	rep, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("web: get report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return nil, false
	}
	return rep, true
}

// credentials fills blank request keys from the server configuration.
func (s *Server) credentials(extractorKey, summarizerKey string) enrich.Credentials {
	c := enrich.Credentials{
		ExtractorKey:  strings.TrimSpace(extractorKey),
		SummarizerKey: strings.TrimSpace(summarizerKey),
	}
	if c.ExtractorKey == "" {
		c.ExtractorKey = s.defaults.ExtractorKey
	}
	if c.SummarizerKey == "" {
		c.SummarizerKey = s.defaults.SummarizerKey
	}
	return c
}

func (s *Server) page() pageData {
	return pageData{
		Tones:         s.runner.Catalog().List(),
		Tone:          s.cfg.Summarize.Tone,
		Extractor:     s.cfg.Extract.Provider,
		Summarizer:    s.cfg.Summarize.Provider,
		ServerHasKeys: s.defaults.ExtractorKey != "" && s.defaults.SummarizerKey != "",
		Formats:       report.Formats,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		zap.L().Error("web: render template", zap.Error(err))
	}
}

// classify maps a run error to a status and a user-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, enrich.ErrNoURLs):
		return http.StatusBadRequest, "Please enter at least one website URL."
	case errors.Is(err, enrich.ErrMissingCredentials):
		return http.StatusBadRequest, "Please provide both the extraction and the LLM API keys."
	case errors.Is(err, summarize.ErrUnknownDirective):
		return http.StatusBadRequest, "Unknown tone or template."
	default:
		zap.L().Error("web: enrichment run", zap.Error(err))
		return http.StatusInternalServerError, "Enrichment failed: " + err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
