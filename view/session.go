package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jbeda/geom"

	"hypertile/config"
	"hypertile/internal/logging"
	"hypertile/render"
	"hypertile/scene"
	"hypertile/screen"
	"hypertile/tiling"
)

// FrameHook observes every completed frame, for metrics.
type FrameHook func(d time.Duration, res tiling.Result, err error)

// Session is one viewer of a scene. Input handlers call Pan and Reset; the
// render loop calls RenderIfPending. Any number of pans between two frames
// produce a single frame of the latest state. Safe for concurrent use.
type Session struct {
	scene scene.Scene
	cfg   config.Config
	log   *slog.Logger
	stats *FrameStats
	hook  FrameHook

	mu      sync.Mutex
	state   State
	proj    screen.Projection
	pending bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger. The default is logging.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithStats records frame durations in stats.
func WithStats(stats *FrameStats) Option {
	return func(s *Session) { s.stats = stats }
}

// WithFrameHook calls hook after every frame.
func WithFrameHook(hook FrameHook) Option {
	return func(s *Session) { s.hook = hook }
}

// NewSession starts a session on sc with a frame pending.
func NewSession(sc scene.Scene, cfg config.Config, opts ...Option) *Session {
	s := &Session{
		scene:   sc,
		cfg:     cfg,
		log:     logging.Logger(),
		state:   Home(sc.Start),
		proj:    screen.DiskToScreen(float64(cfg.Width), float64(cfg.Height)),
		pending: true,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("scene", sc.Name)
	return s
}

// Scene returns the scene being viewed.
func (s *Session) Scene() scene.Scene { return s.scene }

// State returns the current view state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Size returns the canvas size in pixels.
func (s *Session) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Width, s.cfg.Height
}

// Resize changes the canvas size and schedules a frame.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.cfg.Width && height == s.cfg.Height {
		return
	}
	s.cfg.Width, s.cfg.Height = width, height
	s.proj = screen.DiskToScreen(float64(width), float64(height))
	s.pending = true
}

// Pan drags the view from screen point start to end. A failed pan leaves
// the view as it was; the error is logged and returned.
func (s *Session) Pan(start, end geom.Coord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := Pan(s.state, s.proj, s.cfg.PanClampRadius, start, end)
	if err != nil {
		s.log.Warn("pan dropped", "start", start, "end", end, "error", err)
		return err
	}
	s.state = st
	s.pending = true
	return nil
}

// Reset returns to the scene's start anchor at the origin.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Home(s.scene.Start)
	s.pending = true
}

// Pending reports whether the view changed since the last frame.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// RenderIfPending draws a frame only if one is pending.
func (s *Session) RenderIfPending(surface render.Surface) (drawn bool, res tiling.Result, err error) {
	if !s.Pending() {
		return false, res, nil
	}
	res, err = s.Render(surface)
	return true, res, err
}

// Render clears surface and draws the current state onto it. On success
// the view is re-anchored on the anchor closest to the origin.
func (s *Session) Render(surface render.Surface) (tiling.Result, error) {
	s.mu.Lock()
	st, proj, cfg := s.state, s.proj, s.cfg
	s.pending = false
	s.mu.Unlock()

	began := time.Now()
	dc := render.NewDiskContext(surface, st.View, proj, cfg.RenderOptions())
	dc.Clear()
	next, res, err := Frame(st, s.scene.Map, dc, cfg.TilingOptions())
	if err == nil {
		err = dc.Err()
	}
	elapsed := time.Since(began)

	if s.stats != nil {
		s.stats.Record(elapsed)
	}
	if s.hook != nil {
		s.hook(elapsed, res, err)
	}
	if err != nil {
		s.log.Error("frame failed", "anchor", st.Anchor, "error", err)
		return res, err
	}

	s.mu.Lock()
	// A pan that landed while drawing was applied to the old frame of
	// reference; keep it and draw again rather than re-anchoring.
	if s.state == st {
		s.state = next
	}
	s.mu.Unlock()
	s.log.Debug("frame", "anchor", next.Anchor, "drawn", res.Drawn, "visited", res.Visited, "elapsed", elapsed)
	return res, nil
}
