// Package physics integrates the vertical motion of a single body falling under
// constant gravity and bouncing inelastically off the ground.
package physics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is returned when a tracker is built or configured with
// values outside their valid range.
var ErrInvalidArgument = errors.New("invalid argument")

// Limits on how a single Advance call resolves ground impacts.
const (
	// MaxImpactsPerAdvance caps the number of bounces resolved in one call.
	// Reaching the cap settles the body on the ground.
	MaxImpactsPerAdvance = 1000

	// MinCrossingTime is the smallest crossing time (seconds) treated as
	// lying inside the interval. Shorter crossings are snapped to zero.
	MinCrossingTime = 1e-9

	// RestSpeed is the impact speed (m/s) below which the body is considered
	// to be resting on the ground instead of bouncing.
	RestSpeed = 1e-6
)

// Impact describes a single ground contact resolved during an advance.
type Impact struct {
	At            float64 // Seconds since the start of the advance
	IncomingSpeed float64 // Speed just before contact (m/s, non-negative)
	OutgoingSpeed float64 // Speed just after contact (m/s, non-negative)
}

// Step is the detailed result of an advance.
type Step struct {
	Position float64
	Velocity float64
	Impacts  []Impact
	Settled  bool // The body came to rest on the ground during this step
	Stopped  bool
}

// Tracker owns the kinematic state of the body.
// It is not safe for concurrent use; the holder serializes calls.
type Tracker struct {
	position     float64 // Height above ground (m), never negative
	velocity     float64 // Positive away from the ground (m/s)
	acceleration float64 // Constant, negative (m/s²)
	restitution  float64 // Fraction of impact speed kept after a bounce
	stopped      bool
	bounces      int
}

// NewTracker creates a tracker with the given gravitational acceleration
// (negative, m/s²) and restitution coefficient in (0, 1).
// The tracker starts on the ground at rest until Configure is called.
func NewTracker(acceleration, restitution float64) (*Tracker, error) {
	if math.IsNaN(acceleration) || math.IsInf(acceleration, 0) || acceleration >= 0 {
		return nil, fmt.Errorf("physics: acceleration must be negative, got %v: %w", acceleration, ErrInvalidArgument)
	}
	if !(restitution > 0 && restitution < 1) {
		return nil, fmt.Errorf("physics: restitution must be in (0, 1), got %v: %w", restitution, ErrInvalidArgument)
	}
	return &Tracker{
		acceleration: acceleration,
		restitution:  restitution,
	}, nil
}

// Configure places the body at startHeight with startVelocity and clears the
// stopped flag. On error the tracker is left untouched.
func (t *Tracker) Configure(startHeight, startVelocity float64) error {
	if !(startHeight >= 0) || math.IsInf(startHeight, 0) {
		return fmt.Errorf("physics: cannot put the body below the ground (height %v): %w", startHeight, ErrInvalidArgument)
	}
	if math.IsNaN(startVelocity) || math.IsInf(startVelocity, 0) {
		return fmt.Errorf("physics: start velocity must be finite, got %v: %w", startVelocity, ErrInvalidArgument)
	}

	t.position = startHeight
	t.velocity = startVelocity
	t.stopped = false
	t.bounces = 0
	return nil
}

// Advance moves the body forward by deltaT seconds and returns its new height.
// All ground impacts inside the interval are resolved.
func (t *Tracker) Advance(deltaT float64) float64 {
	return t.AdvanceDetailed(deltaT).Position
}

// AdvanceDetailed is Advance that also reports the impacts resolved during the
// interval.
func (t *Tracker) AdvanceDetailed(deltaT float64) Step {
	step := Step{}
	if t.stopped || !(deltaT > 0) {
		return t.fill(step)
	}

	remaining := deltaT
	elapsed := 0.0
	for {
		// Trapezoidal update is exact for constant acceleration.
		v1 := t.velocity + t.acceleration*remaining
		x1 := t.position + remaining*(t.velocity+v1)/2

		if x1 > 0 {
			t.position = x1
			t.velocity = v1
			return t.fill(step)
		}

		if x1 == 0 {
			// Lands exactly at the end of the interval.
			if t.settleIfResting(-v1, &step) || t.settleIfCapped(&step) {
				return t.fill(step)
			}
			t.bounce(-v1, elapsed+remaining, &step)
			return t.fill(step)
		}

		hit, ok := GroundCrossing(t.acceleration, t.velocity, t.position)
		if !ok {
			t.stopped = true
			return t.fill(step)
		}
		if hit < MinCrossingTime {
			hit = 0
		}

		incoming := -(t.velocity + t.acceleration*hit)
		if t.settleIfResting(incoming, &step) || t.settleIfCapped(&step) {
			return t.fill(step)
		}

		elapsed += hit
		t.bounce(incoming, elapsed, &step)

		remaining -= hit
		if remaining <= 0 {
			return t.fill(step)
		}
	}
}

// bounce puts the body on the ground and reverses the incoming speed with
// energy loss.
func (t *Tracker) bounce(incoming, at float64, step *Step) {
	outgoing := incoming * t.restitution
	t.position = 0
	t.velocity = outgoing
	t.bounces++
	step.Impacts = append(step.Impacts, Impact{
		At:            at,
		IncomingSpeed: incoming,
		OutgoingSpeed: outgoing,
	})
}

func (t *Tracker) settleIfResting(incoming float64, step *Step) bool {
	if incoming >= RestSpeed {
		return false
	}
	t.settle(step)
	return true
}

// settleIfCapped settles the body once the step holds MaxImpactsPerAdvance
// impacts.
func (t *Tracker) settleIfCapped(step *Step) bool {
	if len(step.Impacts) < MaxImpactsPerAdvance {
		return false
	}
	t.settle(step)
	return true
}

func (t *Tracker) settle(step *Step) {
	t.position = 0
	t.velocity = 0
	t.stopped = true
	step.Settled = true
}

func (t *Tracker) fill(step Step) Step {
	step.Position = t.position
	step.Velocity = t.velocity
	step.Stopped = t.stopped
	return step
}

// Position returns the current height above ground in meters.
func (t *Tracker) Position() float64 {
	return t.position
}

// Velocity returns the current velocity in m/s (positive is up).
func (t *Tracker) Velocity() float64 {
	return t.velocity
}

// Acceleration returns the configured gravitational acceleration.
func (t *Tracker) Acceleration() float64 {
	return t.acceleration
}

// Restitution returns the configured restitution coefficient.
func (t *Tracker) Restitution() float64 {
	return t.restitution
}

// IsStopped reports whether the trajectory is frozen.
// Hosts use it to decide whether to keep scheduling advances.
func (t *Tracker) IsStopped() bool {
	return t.stopped
}

// Bounces returns the number of impacts since the last Configure.
func (t *Tracker) Bounces() int {
	return t.bounces
}

// PeakHeight returns the apex of the current flight: the highest point the
// body will reach before its next descent.
func (t *Tracker) PeakHeight() float64 {
	if t.velocity <= 0 {
		return t.position
	}
	return t.position + t.velocity*t.velocity/(2*-t.acceleration)
}
