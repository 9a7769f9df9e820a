package live

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/weft-dev/weft"
	"github.com/weft-dev/weft/pkg/dom"
	"github.com/weft-dev/weft/pkg/render"
)

// App builds the page tree for one request or session. It must return
// a fresh hydrating tree on every call; trees are single-use.
type App func() *dom.Element

// ServerConfig holds server wiring.
type ServerConfig struct {
	Title      string
	MountID    string
	LivePath   string
	Renderer   *render.Renderer
	Session    SessionConfig
	Logger     *slog.Logger
	Hooks      Hooks
	Middleware []func(http.Handler) http.Handler
}

// ServerOption configures a Server.
type ServerOption func(*ServerConfig)

// WithTitle sets the page title.
func WithTitle(title string) ServerOption {
	return func(c *ServerConfig) { c.Title = title }
}

// WithMountID sets the id of the element the app tree mounts at.
func WithMountID(id string) ServerOption {
	return func(c *ServerConfig) { c.MountID = id }
}

// WithLivePath sets the websocket endpoint path.
func WithLivePath(path string) ServerOption {
	return func(c *ServerConfig) { c.LivePath = path }
}

// WithRenderer sets the page renderer.
func WithRenderer(r *render.Renderer) ServerOption {
	return func(c *ServerConfig) { c.Renderer = r }
}

// WithSessionConfig sets the per-session tunables.
func WithSessionConfig(sc SessionConfig) ServerOption {
	return func(c *ServerConfig) { c.Session = sc }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *ServerConfig) { c.Logger = l }
}

// WithHooks installs observation callbacks on every session.
func WithHooks(h Hooks) ServerOption {
	return func(c *ServerConfig) { c.Hooks = h }
}

// WithMiddleware appends HTTP middleware to the router chain.
func WithMiddleware(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(c *ServerConfig) { c.Middleware = append(c.Middleware, mw...) }
}

// Server serves an app twice over: as server-rendered markup on GET /,
// and as a live session over the websocket endpoint. On connect the
// server re-renders the page it served, parses its own output back
// into a live document, and hydrates a fresh app tree onto it, so the
// server-side document mirrors exactly what the client is showing.
type Server struct {
	cfg      ServerConfig
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer wires an app into a ready http.Handler.
func NewServer(app App, opts ...ServerOption) *Server {
	cfg := ServerConfig{
		Title:    "Weft",
		MountID:  "app",
		LivePath: "/weft/live",
		Session:  DefaultSessionConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = render.New(render.WithLiveEndpoint(cfg.LivePath))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Session.Logger == nil {
		cfg.Session.Logger = cfg.Logger
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	for _, mw := range cfg.Middleware {
		r.Use(mw)
	}
	r.Get("/", s.handlePage(app))
	r.Get(cfg.LivePath, s.handleLive(app))
	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// page builds a fresh tree and the page wrapping it.
func (s *Server) page(app App) (*dom.Element, render.Page) {
	tree := app()
	tree.SetAttribute("id", s.cfg.MountID)
	return tree, render.Page{Title: s.cfg.Title, Body: tree}
}

func (s *Server) handlePage(app App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, page := s.page(app)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.cfg.Renderer.RenderPage(w, page); err != nil {
			s.logger.Error("render error", "error", err)
		}
	}
}

func (s *Server) handleLive(app App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Error("websocket upgrade failed", "error", err)
			return
		}

		// Reconstruct the document the client is showing from our own
		// rendered output, then hydrate a fresh tree onto it.
		tree, page := s.page(app)
		markup, err := s.cfg.Renderer.RenderPageToString(page)
		if err != nil {
			s.logger.Error("render error", "error", err)
			conn.Close()
			return
		}
		doc, err := dom.ParseDocument(strings.NewReader(markup))
		if err != nil {
			s.logger.Error("parse error", "error", err)
			conn.Close()
			return
		}

		sess := NewSession(conn, doc, s.cfg.Session)
		sess.SetHooks(s.cfg.Hooks)

		handle, err := weft.Hydrate(r.Context(), doc, s.cfg.MountID, tree,
			weft.WithOwner(sess.Owner()), weft.WithQueue(sess.Queue()))
		if err != nil {
			s.logger.Error("hydrate error", "error", err)
			sess.Close()
			return
		}
		stats, err := handle.Wait(r.Context())
		if err != nil {
			s.logger.Error("hydrate wait error", "error", err)
			sess.Close()
			return
		}
		if s.cfg.Hooks.OnHydrate != nil {
			s.cfg.Hooks.OnHydrate(stats)
		}
		s.logger.Info("session hydrated",
			"session", sess.ID(),
			"matched", stats.Matched,
			"discarded", stats.Discarded,
			"text_updates", stats.TextUpdates)

		// Patches produced during hydration and the initial effect run
		// go out before the event loop starts.
		sess.settle()

		defer handle.Unmount()
		go sess.ReadLoop()
		sess.Run(r.Context())
	}
}
