package app

import (
	"fmt"

	"github.com/Faultbox/simple-engine/internal/engine/render"
)

// statsCounter averages the frame rate over a fixed interval.
type statsCounter struct {
	interval float32
	elapsed  float32
	frames   int
}

func newStatsCounter(interval float32) *statsCounter {
	return &statsCounter{interval: interval}
}

// tick records one frame. It returns the average fps once per interval.
func (s *statsCounter) tick(dt float32) (float32, bool) {
	s.elapsed += dt
	s.frames++
	if s.elapsed < s.interval || s.elapsed <= 0 {
		return 0, false
	}
	fps := float32(s.frames) / s.elapsed
	s.elapsed = 0
	s.frames = 0
	return fps, true
}

func formatTitle(base string, fps float32, st render.Stats) string {
	return fmt.Sprintf("%s | FPS: %d | Draws: %d | Tris: %d", base, int(fps), st.DrawCalls, st.Triangles)
}
