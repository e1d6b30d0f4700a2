package debug

import "time"

// FrameStats counts frames and reports the rate once per interval.
type FrameStats struct {
	Interval time.Duration

	frames  int
	elapsed time.Duration
	slowest time.Duration
}

// NewFrameStats reports once per second.
func NewFrameStats() *FrameStats {
	return &FrameStats{Interval: time.Second}
}

// FrameReport summarizes one interval.
type FrameReport struct {
	FPS     float64
	Frames  int
	Slowest time.Duration
}

// Tick records a frame of length dt. It returns a report and true when an
// interval has elapsed, then starts the next interval.
func (s *FrameStats) Tick(dt time.Duration) (FrameReport, bool) {
	s.frames++
	s.elapsed += dt
	s.slowest = max(s.slowest, dt)
	if s.elapsed < s.Interval {
		return FrameReport{}, false
	}

	r := FrameReport{
		FPS:     float64(s.frames) / s.elapsed.Seconds(),
		Frames:  s.frames,
		Slowest: s.slowest,
	}
	s.frames, s.elapsed, s.slowest = 0, 0, 0
	return r, true
}
