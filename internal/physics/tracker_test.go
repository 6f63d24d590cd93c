package physics

import (
	"errors"
	"math"
	"testing"
)

const (
	helsinkiGravity = -9.825
	defaultCoef     = 0.6
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(helsinkiGravity, defaultCoef)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	return tr
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewTrackerValidation(t *testing.T) {
	tests := []struct {
		name         string
		acceleration float64
		restitution  float64
		wantErr      bool
	}{
		{"valid", -9.8, 0.5, false},
		{"zero gravity", 0, 0.5, true},
		{"upward gravity", 9.8, 0.5, true},
		{"nan gravity", math.NaN(), 0.5, true},
		{"infinite gravity", math.Inf(-1), 0.5, true},
		{"zero restitution", -9.8, 0, true},
		{"unit restitution", -9.8, 1, true},
		{"negative restitution", -9.8, -0.2, true},
		{"nan restitution", -9.8, math.NaN(), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTracker(tc.acceleration, tc.restitution)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewTracker() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewTracker() error = %v, expected ErrInvalidArgument", err)
			}
		})
	}
}

func TestConfigureRejectsNegativeHeight(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(3, 2); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	for _, h := range []float64{-1, -0.001, math.NaN(), math.Inf(1)} {
		err := tr.Configure(h, 7)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Configure(%v) error = %v, expected ErrInvalidArgument", h, err)
		}
	}

	if tr.Position() != 3 || tr.Velocity() != 2 {
		t.Errorf("state changed after failed Configure: position=%v velocity=%v", tr.Position(), tr.Velocity())
	}
}

func TestConfigureClearsStopped(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(0, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	tr.Advance(0.1)
	if !tr.IsStopped() {
		t.Fatal("body at rest on the ground should be stopped")
	}

	if err := tr.Configure(8, 5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if tr.IsStopped() {
		t.Error("Configure should clear the stopped flag")
	}
	if tr.Bounces() != 0 {
		t.Errorf("Configure should reset bounces, got %d", tr.Bounces())
	}
}

func TestAdvanceZeroIsNoop(t *testing.T) {
	states := []struct{ x, v float64 }{
		{8, 5},
		{0, 3},
		{0, -3},
		{2.5, -1},
		{0, 0},
	}

	for _, s := range states {
		tr := newTestTracker(t)
		if err := tr.Configure(s.x, s.v); err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
		got := tr.Advance(0)
		if got != s.x {
			t.Errorf("Advance(0) from (%v, %v) = %v, expected %v", s.x, s.v, got, s.x)
		}
		if tr.Velocity() != s.v {
			t.Errorf("Advance(0) from (%v, %v) changed velocity to %v", s.x, s.v, tr.Velocity())
		}
		if tr.IsStopped() {
			t.Errorf("Advance(0) from (%v, %v) stopped the tracker", s.x, s.v)
		}
	}
}

func TestAdvanceFreeFlight(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(8, 5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	got := tr.Advance(0.5)
	want := 8 + 5*0.5 + helsinkiGravity*0.25/2
	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Advance(0.5) = %v, expected %v", got, want)
	}
	if !almostEqual(tr.Velocity(), 5+helsinkiGravity*0.5, 1e-12) {
		t.Errorf("Velocity() = %v, expected %v", tr.Velocity(), 5+helsinkiGravity*0.5)
	}
}

func TestWorkedScenarioStepEquivalence(t *testing.T) {
	stepped := newTestTracker(t)
	single := newTestTracker(t)
	for _, tr := range []*Tracker{stepped, single} {
		if err := tr.Configure(8, 5); err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
	}

	var got float64
	for i := 0; i < 7; i++ {
		got = stepped.Advance(0.1)
	}
	want := single.Advance(0.7)

	if !almostEqual(got, want, 1e-9) {
		t.Errorf("7 x Advance(0.1) = %v, Advance(0.7) = %v", got, want)
	}
	if !almostEqual(stepped.Velocity(), single.Velocity(), 1e-9) {
		t.Errorf("velocities differ: stepped=%v single=%v", stepped.Velocity(), single.Velocity())
	}
	// 8 + 5·0.7 - 9.825·0.49/2
	if !almostEqual(want, 9.092875, 1e-9) {
		t.Errorf("Advance(0.7) = %v, expected 9.092875", want)
	}
}

func TestStepEquivalenceAcrossBounce(t *testing.T) {
	stepped := newTestTracker(t)
	single := newTestTracker(t)
	for _, tr := range []*Tracker{stepped, single} {
		if err := tr.Configure(1, 0); err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
	}

	var got float64
	for i := 0; i < 12; i++ {
		got = stepped.Advance(0.1)
	}
	want := single.Advance(1.2)

	if stepped.Bounces() == 0 || stepped.Bounces() != single.Bounces() {
		t.Fatalf("Bounces() stepped=%d single=%d, expected equal and non-zero", stepped.Bounces(), single.Bounces())
	}
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("12 x Advance(0.1) = %v, Advance(1.2) = %v", got, want)
	}
	if !almostEqual(stepped.Velocity(), single.Velocity(), 1e-9) {
		t.Errorf("velocities differ: stepped=%v single=%v", stepped.Velocity(), single.Velocity())
	}
}

func TestBounceEnergyLaw(t *testing.T) {
	tr := newTestTracker(t)
	const h = 5.0
	if err := tr.Configure(h, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(1.2) // ground is reached after ~1.009 s
	if len(step.Impacts) != 1 {
		t.Fatalf("expected 1 impact, got %d", len(step.Impacts))
	}

	imp := step.Impacts[0]
	wantIncoming := math.Sqrt(2 * -helsinkiGravity * h)
	if !almostEqual(imp.IncomingSpeed, wantIncoming, 1e-9) {
		t.Errorf("IncomingSpeed = %v, expected %v", imp.IncomingSpeed, wantIncoming)
	}
	if !almostEqual(imp.OutgoingSpeed, defaultCoef*imp.IncomingSpeed, 1e-12) {
		t.Errorf("OutgoingSpeed = %v, expected %v", imp.OutgoingSpeed, defaultCoef*imp.IncomingSpeed)
	}
	wantAt := math.Sqrt(2 * h / -helsinkiGravity)
	if !almostEqual(imp.At, wantAt, 1e-9) {
		t.Errorf("At = %v, expected %v", imp.At, wantAt)
	}

	// After the bounce the body flies up for the remaining time.
	rest := 1.2 - imp.At
	wantV := imp.OutgoingSpeed + helsinkiGravity*rest
	if !almostEqual(tr.Velocity(), wantV, 1e-9) {
		t.Errorf("Velocity() = %v, expected %v", tr.Velocity(), wantV)
	}
	if tr.Bounces() != 1 {
		t.Errorf("Bounces() = %d, expected 1", tr.Bounces())
	}
}

func TestPeakHeightsDecrease(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(8, 5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	var peaks []float64
	peak := tr.Position()
	for i := 0; i < 200000 && !tr.IsStopped(); i++ {
		step := tr.AdvanceDetailed(0.0005)
		if len(step.Impacts) > 0 {
			// Sampling cannot resolve apexes of very short flights.
			if peak < 0.01 {
				break
			}
			peaks = append(peaks, peak)
			peak = step.Position
		}
		if step.Position > peak {
			peak = step.Position
		}
	}

	if len(peaks) < 5 {
		t.Fatalf("expected at least 5 flights, got %d", len(peaks))
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i] >= peaks[i-1] {
			t.Errorf("peak %d = %v is not below peak %d = %v", i, peaks[i], i-1, peaks[i-1])
		}
	}
}

func TestNonNegativity(t *testing.T) {
	deltas := []float64{0.016, 0.1, 0.0001, 0.7, 2.5, 0.033, 0, 1e-7, 0.25}
	starts := []struct{ x, v float64 }{
		{8, 5}, {0, 0}, {0, 12}, {0, -4}, {1e-9, -1e-9}, {20, -30},
	}

	for _, s := range starts {
		tr := newTestTracker(t)
		if err := tr.Configure(s.x, s.v); err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
		for round := 0; round < 50; round++ {
			for _, dt := range deltas {
				if got := tr.Advance(dt); got < 0 {
					t.Fatalf("Advance(%v) from (%v, %v) = %v, expected >= 0", dt, s.x, s.v, got)
				}
			}
		}
	}
}

func TestMultipleBouncesInOneStep(t *testing.T) {
	const total = 1.2

	coarse := newTestTracker(t)
	if err := coarse.Configure(1, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	got := coarse.Advance(total)

	reference := newTestTracker(t)
	if err := reference.Configure(1, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	const (
		fine  = 1e-4
		steps = 12000 // total / fine
	)
	for i := 0; i < steps; i++ {
		reference.Advance(fine)
	}

	if coarse.Bounces() < 2 {
		t.Errorf("expected at least 2 bounces in one step, got %d", coarse.Bounces())
	}
	if coarse.Bounces() != reference.Bounces() {
		t.Errorf("Bounces() coarse=%d reference=%d", coarse.Bounces(), reference.Bounces())
	}
	if !almostEqual(got, reference.Position(), 1e-6) {
		t.Errorf("Advance(%v) = %v, fine-step reference = %v", total, got, reference.Position())
	}
	if !almostEqual(coarse.Velocity(), reference.Velocity(), 1e-6) {
		t.Errorf("Velocity() coarse=%v reference=%v", coarse.Velocity(), reference.Velocity())
	}
}

func TestLandingExactlyAtStepEnd(t *testing.T) {
	// Launched from the ground, the body returns after exactly 2v/|a| seconds.
	// These values keep the flight time exact in binary floating point.
	tr, err := NewTracker(-8, 0.5)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	if err := tr.Configure(0, 4); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(1)
	if step.Position != 0 {
		t.Errorf("Position = %v, expected 0", step.Position)
	}
	if step.Velocity != 2 {
		t.Errorf("Velocity = %v, expected 2", step.Velocity)
	}
	if len(step.Impacts) != 1 || step.Impacts[0].At != 1 {
		t.Errorf("Impacts = %+v, expected one impact at t=1", step.Impacts)
	}
}

func TestRestingBodyTerminates(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(0, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(1)
	if !step.Settled || !tr.IsStopped() {
		t.Errorf("resting body should settle and stop, got %+v", step)
	}
	if step.Position != 0 || step.Velocity != 0 {
		t.Errorf("resting body moved: %+v", step)
	}
}

func TestLongStepSettles(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(8, 5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(60)
	if !tr.IsStopped() {
		t.Fatal("after a minute the body should be at rest")
	}
	if step.Position != 0 {
		t.Errorf("Position = %v, expected 0", step.Position)
	}
	if len(step.Impacts) == 0 || len(step.Impacts) > MaxImpactsPerAdvance {
		t.Errorf("unexpected impact count %d", len(step.Impacts))
	}
	// Stopped is sticky.
	if got := tr.Advance(1); got != 0 {
		t.Errorf("Advance after stop = %v, expected 0", got)
	}
}

func TestDownwardLaunchFromGround(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(0, -5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(0.1)
	if len(step.Impacts) == 0 {
		t.Fatal("expected an immediate impact")
	}
	if step.Impacts[0].At != 0 {
		t.Errorf("first impact at %v, expected 0", step.Impacts[0].At)
	}
	if !almostEqual(step.Impacts[0].OutgoingSpeed, 3, 1e-12) {
		t.Errorf("OutgoingSpeed = %v, expected 3", step.Impacts[0].OutgoingSpeed)
	}
	if step.Position <= 0 || tr.IsStopped() {
		t.Errorf("body should be airborne after bouncing, got %+v", step)
	}
}

func TestPeakHeight(t *testing.T) {
	tr := newTestTracker(t)
	if err := tr.Configure(8, 5); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	want := 8 + 25/(2*9.825)
	if !almostEqual(tr.PeakHeight(), want, 1e-12) {
		t.Errorf("PeakHeight() = %v, expected %v", tr.PeakHeight(), want)
	}

	if err := tr.Configure(3, -1); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if tr.PeakHeight() != 3 {
		t.Errorf("PeakHeight() while falling = %v, expected 3", tr.PeakHeight())
	}
}

func TestImpactCapSettles(t *testing.T) {
	// At r = 0.999 the body needs over 15000 bounces to slow below RestSpeed.
	tr, err := NewTracker(helsinkiGravity, 0.999)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	if err := tr.Configure(10, 0); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	step := tr.AdvanceDetailed(1e6)
	if len(step.Impacts) != MaxImpactsPerAdvance {
		t.Errorf("len(Impacts) = %d, expected %d", len(step.Impacts), MaxImpactsPerAdvance)
	}
	if !step.Settled || !tr.IsStopped() {
		t.Errorf("step = {Settled: %v, Stopped: %v}, expected both true", step.Settled, tr.IsStopped())
	}
	if step.Position != 0 || step.Velocity != 0 {
		t.Errorf("capped body = (%v, %v), expected (0, 0)", step.Position, step.Velocity)
	}
	if tr.Bounces() != MaxImpactsPerAdvance {
		t.Errorf("Bounces() = %d, expected %d", tr.Bounces(), MaxImpactsPerAdvance)
	}
}
