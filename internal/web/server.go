// Package web serves the JSON tree to a browser. Every websocket connection
// gets its own controller; the document is never shared between them.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rebeliceyang/lazyjson/internal/controller"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

//go:embed static/*
var staticFS embed.FS

var indexTemplate = template.Must(template.ParseFS(staticFS, "static/index.html"))

// LoadFunc produces a fresh copy of the document for a new connection
type LoadFunc func() (any, error)

// Server provides the HTTP + WebSocket front end
type Server struct {
	load           LoadFunc
	title          string
	logger         *log.Logger
	previewer      controller.LinkPreviewer
	pulse          time.Duration
	startCollapsed bool

	router   chi.Router
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTitle sets the page title
func WithTitle(title string) Option {
	return func(s *Server) { s.title = title }
}

// WithPreviewer enables link previews
func WithPreviewer(p controller.LinkPreviewer) Option {
	return func(s *Server) { s.previewer = p }
}

// WithPulse sets how long a copied row stays highlighted
func WithPulse(d time.Duration) Option {
	return func(s *Server) { s.pulse = d }
}

// WithStartCollapsed collapses every container when a page connects
func WithStartCollapsed(collapsed bool) Option {
	return func(s *Server) { s.startCollapsed = collapsed }
}

// NewServer creates a web server for the document produced by load
func NewServer(load LoadFunc, opts ...Option) *Server {
	s := &Server{
		load:     load,
		title:    "lazyjson",
		logger:   log.New(io.Discard),
		pulse:    150 * time.Millisecond,
		sessions: make(map[uuid.UUID]*session),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/static/tree.css", s.handleTreeCSS)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
	r.Get("/api/document", s.handleDocument)
	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, struct{ Title string }{s.title}); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleTreeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, render.Stylesheet())
}

// handleDocument returns the document as loaded, before any edits made in a
// browser session
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load()
	if err != nil {
		s.logger.Error("load document", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	text, err := jsondoc.Format(doc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, text+"\n")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load()
	if err != nil {
		s.logger.Error("load document", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade", "err", err)
		return
	}

	sess := newSession(s, conn, doc)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)

	sess.run()

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.logger.Info("session closed", "session", sess.id)
}

// Sessions returns the number of open websocket sessions
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseSessions drops every websocket connection. http.Server.Shutdown does
// not touch hijacked connections, so call this alongside it.
func (s *Server) CloseSessions() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.conn.Close()
	}
}
