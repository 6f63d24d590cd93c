package physics

import "math"

// GroundCrossing returns the time until a body at height x moving with
// velocity v under constant acceleration a reaches the ground, i.e. the root of
// (a/2)·t² + v·t + x = 0.
//
// The second return value is false when the crossing cannot be determined:
// there is no real root, or both roots lie in the future and the state does not
// say which one the body reaches first.
func GroundCrossing(a, v, x float64) (float64, bool) {
	qa := a / 2
	discriminant := v*v - 4*qa*x

	switch {
	case discriminant < 0:
		return 0, false
	case discriminant == 0:
		return -v / a, true
	}

	root := math.Sqrt(discriminant)
	t1 := (-v + root) / (2 * qa)
	t2 := (-v - root) / (2 * qa)

	if t1 > 0 && t2 > 0 {
		return 0, false
	}
	if t1 > 0 {
		return t1, true
	}
	// Neither root lies ahead. This happens on the ground when moving downwards
	// (roots 0 and -2v/a); the crossing is "now".
	return t2, true
}
