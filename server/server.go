// Package server renders tilings over HTTP: single frames as PNG or SVG,
// and interactive pan sessions over a WebSocket.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hypertile/config"
	"hypertile/internal/logging"
	"hypertile/render"
	"hypertile/scene"
	"hypertile/view"
)

// MaxCanvas bounds the width and height a client may ask for.
const MaxCanvas = 4096

const shutdownTimeout = 5 * time.Second

// Server serves frames of the configured scene and the built-in scenes.
type Server struct {
	cfg      config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	stats    *view.FrameStats
	upgrader websocket.Upgrader

	mu     sync.Mutex
	scenes map[string]scene.Scene

	closing   chan struct{}
	closeOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger. The default is logging.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a server for cfg. The configured scene is loaded up front so
// that a bad scene file fails at startup rather than on the first request.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		log:      logging.Logger(),
		registry: prometheus.NewRegistry(),
		scenes:   make(map[string]scene.Scene),
		closing:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.metrics = NewMetrics(s.registry)
	s.stats = view.NewFrameStats(s.log)

	sc, err := scene.Resolve(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("server: scene %q: %w", cfg.Scene, err)
	}
	s.scenes[cfg.Scene] = sc
	return s, nil
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/scenes", s.handleScenes)
	r.Get("/frame.png", s.handleFrame(formatPNG))
	r.Get("/frame.svg", s.handleFrame(formatSVG))
	r.Get("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on cfg.Addr until ctx is done, then shuts down,
// giving outstanding requests a few seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(s.Close)

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	go s.stats.Run(statsCtx, s.cfg.StatsPeriod())

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr, "scene", s.cfg.Scene)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		s.log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("server: close: %w", err)
			}
		}
		s.log.Info("stopped")
		return nil
	}
}

// Close ends all WebSocket sessions.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// scene returns the configured scene by its configured name, or a built-in.
// Scene files are never opened on behalf of a request.
func (s *Server) scene(name string) (scene.Scene, error) {
	if name == "" {
		name = s.cfg.Scene
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scenes[name]; ok {
		return sc, nil
	}
	sc, err := scene.Builtin(name)
	if err != nil {
		return scene.Scene{}, err
	}
	s.scenes[name] = sc
	return sc, nil
}

// request is the scene and canvas a request asked for.
type request struct {
	scene scene.Scene
	cfg   config.Config
}

func (s *Server) parseRequest(r *http.Request) (request, error) {
	q := r.URL.Query()
	sc, err := s.scene(q.Get("scene"))
	if err != nil {
		return request{}, err
	}
	cfg := s.cfg
	if cfg.Width, err = sizeParam(q.Get("w"), cfg.Width); err != nil {
		return request{}, err
	}
	if cfg.Height, err = sizeParam(q.Get("h"), cfg.Height); err != nil {
		return request{}, err
	}
	return request{scene: sc, cfg: cfg}, nil
}

var errBadSize = errors.New("server: bad canvas size")

func sizeParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > MaxCanvas {
		return 0, fmt.Errorf("%w: %q (1..%d)", errBadSize, v, MaxCanvas)
	}
	return n, nil
}

func (s *Server) newSession(req request) *view.Session {
	return view.NewSession(req.scene, req.cfg,
		view.WithLogger(s.log),
		view.WithStats(s.stats),
		view.WithFrameHook(s.metrics.ObserveFrame),
	)
}

type format int

const (
	formatPNG format = iota
	formatSVG
)

func (s *Server) handleFrame(f format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := s.parseRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			s.log.Warn("frame: bad request", "query", r.URL.RawQuery, "err", err)
			return
		}
		var drags []view.Drag
		for _, p := range r.URL.Query()["pan"] {
			d, err := view.ParseDrag(p)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			drags = append(drags, d)
		}

		sess := s.newSession(req)
		for _, d := range drags {
			if err := sess.Pan(d.Start, d.End); err != nil {
				s.metrics.PanDropped()
			}
		}

		var buf bytes.Buffer
		switch f {
		case formatPNG:
			err = renderPNG(&buf, sess)
			w.Header().Set("Content-Type", "image/png")
		case formatSVG:
			err = renderSVG(&buf, sess)
			w.Header().Set("Content-Type", "image/svg+xml")
		}
		if err != nil {
			w.Header().Del("Content-Type")
			http.Error(w, fmt.Sprintf("render error: %v", err), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			s.log.Debug("frame: write", "err", err)
		}
	}
}

func renderPNG(buf *bytes.Buffer, sess *view.Session) error {
	width, height := sess.Size()
	surface := render.NewRasterSurface(width, height)
	defer surface.Close()
	if _, err := sess.Render(surface); err != nil {
		return err
	}
	return surface.EncodePNG(buf)
}

func renderSVG(buf *bytes.Buffer, sess *view.Session) error {
	width, height := sess.Size()
	surface := render.NewSVGSurface(buf, float64(width), float64(height))
	if _, err := sess.Render(surface); err != nil {
		return err
	}
	return surface.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"default": s.cfg.Scene, "builtin": scene.Names()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger().Error("response encode failed", "err", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(indexHTML))
}
