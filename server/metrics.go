package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hypertile/tiling"
)

// Metrics are the server's frame counters. They are registered on the
// server's own registry so that several servers can live in one process.
type Metrics struct {
	frames        *prometheus.CounterVec
	frameDuration prometheus.Histogram
	anchorsDrawn  prometheus.Histogram
	panErrors     prometheus.Counter
	sessions      prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hypertile_frames_total",
				Help: "Frames rendered, by result",
			},
			[]string{"result"},
		),
		frameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hypertile_frame_duration_seconds",
				Help:    "Time to traverse and draw one frame",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
		),
		anchorsDrawn: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hypertile_anchors_drawn",
				Help:    "Anchors drawn per frame",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		panErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hypertile_pan_errors_total",
				Help: "Pan gestures dropped because the transform failed",
			},
		),
		sessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hypertile_ws_sessions",
				Help: "Open WebSocket viewing sessions",
			},
		),
	}
	reg.MustRegister(m.frames, m.frameDuration, m.anchorsDrawn, m.panErrors, m.sessions)
	return m
}

// ObserveFrame records one frame. It has the shape of view.FrameHook.
func (m *Metrics) ObserveFrame(d time.Duration, res tiling.Result, err error) {
	if err != nil {
		m.frames.WithLabelValues("error").Inc()
		return
	}
	m.frames.WithLabelValues("ok").Inc()
	m.frameDuration.Observe(d.Seconds())
	m.anchorsDrawn.Observe(float64(res.Drawn))
}

// PanDropped counts a pan that could not be applied.
func (m *Metrics) PanDropped() { m.panErrors.Inc() }
