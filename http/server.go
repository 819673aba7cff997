package http

import (
	"context"
	_ "embed"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/kavach"
	"github.com/fwojciec/kavach/console"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 5 * time.Second

// Form values for the scope radio buttons.
const (
	ScopeGeneral = "general"
	ScopeCase    = "case"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

// Server hosts the query console page.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Bind address to open.
	Addr string

	// Services used by the handlers. Set before calling Open().
	Console  *console.Console
	Renderer kavach.MarkdownRenderer

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	Logger *slog.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		router: chi.NewRouter(),
		Logger: slog.New(slog.DiscardHandler),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleAnalyze)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)

	s.server.Handler = s.router
	return s
}

// Open begins listening on the bind address and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("server stopped", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP routes a request through the server's router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// page holds the values rendered into the console template.
type page struct {
	Title       string
	Caption     string
	BusyMessage string
	Cases       []string

	Specific bool
	CaseFile string
	Question string

	Warning  string
	Error    string
	Sections []pageSection
}

type pageSection struct {
	Title string
	HTML  template.HTML
}

func newPage() *page {
	return &page{
		Title:       "Kavach-Vani",
		Caption:     "Explainable Legal AI for Indian Judgments",
		BusyMessage: console.BusyMessage,
		Cases:       kavach.KnownCases,
		CaseFile:    kavach.KnownCases[0],
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, newPage())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	p := newPage()
	p.Question = r.PostForm.Get("question")
	p.Specific = r.PostForm.Get("scope") == ScopeCase

	scope := kavach.GeneralScope()
	if p.Specific {
		caseFile := r.PostForm.Get("case_file")
		var err error
		if scope, err = kavach.CaseScope(caseFile); err != nil {
			p.Warning = kavach.ErrorMessage(err)
			s.render(w, p)
			return
		}
		p.CaseFile = caseFile
	}

	result := s.Console.Submit(r.Context(), p.Question, scope, nil)
	switch result.State {
	case console.StateIdle:
		p.Warning = result.Warning
	case console.StateFailed:
		p.Error = result.ErrorMessage()
	case console.StateRendered:
		for _, section := range result.Sections() {
			html, err := s.Renderer.Render(section.Body)
			if err != nil {
				s.Logger.Error("render section", "section", section.Title, "err", err)
				http.Error(w, "failed to render result", http.StatusInternalServerError)
				return
			}
			p.Sections = append(p.Sections, pageSection{
				Title: section.Title,
				HTML:  template.HTML(html),
			})
		}
	}

	s.render(w, p)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.Metrics == nil {
		http.NotFound(w, r)
		return
	}
	s.Metrics.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, p); err != nil {
		s.Logger.Error("render page", "err", err)
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.Logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}
