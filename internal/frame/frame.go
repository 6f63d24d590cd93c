// Package frame drives a render callback once per frame, the way a browser's
// requestAnimationFrame loop does: every frame receives the time elapsed since
// the first frame and since the previous one, and the loop only continues while
// the callback asks for another frame.
package frame

import (
	"context"
	"time"
)

// RenderFunc draws one frame. Returning false ends the loop.
type RenderFunc func(elapsed, delta time.Duration) bool

// Clock turns frame timestamps into (elapsed, delta) pairs.
// The zero value is ready to use.
type Clock struct {
	start   time.Time
	prev    time.Time
	started bool
}

// Tick records a frame at now. The first tick yields (0, 0).
func (c *Clock) Tick(now time.Time) (elapsed, delta time.Duration) {
	if !c.started {
		c.start = now
		c.prev = now
		c.started = true
	}
	elapsed = now.Sub(c.start)
	delta = now.Sub(c.prev)
	c.prev = now
	return elapsed, delta
}

// Reset forgets the first frame so the next tick starts a new sequence.
func (c *Clock) Reset() {
	*c = Clock{}
}

// Started reports whether the clock has seen a frame since the last reset.
func (c *Clock) Started() bool {
	return c.started
}

// Seconds converts a frame duration to the seconds the physics works in.
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}

// Run calls render every interval of wall-clock time until it returns false
// (Run returns nil) or ctx is done (Run returns ctx.Err()).
// Frames never overlap: a slow frame delays the next one.
func Run(ctx context.Context, interval time.Duration, render RenderFunc) error {
	if interval <= 0 {
		interval = time.Second / 60
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var clock Clock
	if !render(clock.Tick(time.Now())) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !render(clock.Tick(now)) {
				return nil
			}
		}
	}
}

// RunFixed renders frames spaced step apart in virtual time, without sleeping,
// until render returns false or maxFrames frames have been rendered
// (maxFrames <= 0 means no limit). It returns the number of frames rendered.
func RunFixed(step time.Duration, maxFrames int, render RenderFunc) int {
	var clock Clock
	now := time.Time{}
	frames := 0
	for maxFrames <= 0 || frames < maxFrames {
		frames++
		if !render(clock.Tick(now)) {
			break
		}
		now = now.Add(step)
	}
	return frames
}
