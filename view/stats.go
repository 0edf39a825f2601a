package view

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FrameSummary describes the frames drawn during one stats period.
type FrameSummary struct {
	Frames  int
	Average time.Duration
	Max     time.Duration
}

// FrameStats collects frame durations and reports them periodically.
type FrameStats struct {
	mu        sync.Mutex
	durations []time.Duration
	logger    *slog.Logger
}

// NewFrameStats returns stats that log through logger.
func NewFrameStats(logger *slog.Logger) *FrameStats {
	return &FrameStats{logger: logger}
}

// Record adds one frame's duration.
func (s *FrameStats) Record(d time.Duration) {
	s.mu.Lock()
	s.durations = append(s.durations, d)
	s.mu.Unlock()
}

// Flush summarizes and forgets the recorded frames, logging the summary if
// there were any.
func (s *FrameStats) Flush() FrameSummary {
	s.mu.Lock()
	ds := s.durations
	s.durations = nil
	s.mu.Unlock()

	var sum FrameSummary
	if len(ds) == 0 {
		return sum
	}
	var total time.Duration
	for _, d := range ds {
		total += d
		sum.Max = max(sum.Max, d)
	}
	sum.Frames = len(ds)
	sum.Average = total / time.Duration(len(ds))
	s.logger.Info("frame stats", "frames", sum.Frames, "avg", sum.Average, "max", sum.Max)
	return sum
}

// Run flushes every period until ctx is done.
func (s *FrameStats) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return
		case <-ticker.C:
			s.Flush()
		}
	}
}
