// Package drop wires a motion tracker and a coordinate mapper into a single
// drop simulation that can be driven one frame at a time.
package drop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/frame"
	"github.com/vovakirdan/tui-bounce/internal/physics"
	"github.com/vovakirdan/tui-bounce/internal/viewport"
)

// Sample is the state of the drop after one frame.
type Sample struct {
	Elapsed  time.Duration // Simulated time since the last restart
	Height   float64       // Meters above the ground
	Velocity float64       // m/s, positive is up
	Row      int           // Display row of the body (0 is the top of the field)
	Col      int           // Display column of the body
	Bounces  int
	Stopped  bool
	OffField bool // Height is above the field; Row is clamped to the top edge
}

// ImpactRecord is a ground contact with its time measured from the restart.
type ImpactRecord struct {
	Seq           int
	At            time.Duration
	IncomingSpeed float64
	OutgoingSpeed float64
}

// RunRecord summarizes one drop from restart until it came to rest.
type RunRecord struct {
	Config     config.DropConfig
	Bounces    int
	PeakHeight float64
	SettleTime time.Duration // Zero until the body comes to rest
	Settled    bool          // The body came to rest on the ground
	Impacts    []ImpactRecord
}

// motion is the part of physics.Tracker a simulation drives.
type motion interface {
	Configure(startHeight, startVelocity float64) error
	AdvanceDetailed(deltaT float64) physics.Step
	Position() float64
	Velocity() float64
	PeakHeight() float64
	Bounces() int
	IsStopped() bool
}

// Simulation owns the tracker and the mapper of one drop.
// It is not safe for concurrent use.
type Simulation struct {
	cfg     config.DropConfig
	tracker motion
	mapper  *viewport.Mapper
	logger  *log.Logger

	elapsed time.Duration
	sample  Sample
	record  RunRecord
}

// New validates cfg and returns a simulation with the body at its start
// position.
func New(cfg config.DropConfig) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tracker, err := physics.NewTracker(cfg.Physics.Gravity, cfg.Physics.Restitution)
	if err != nil {
		return nil, fmt.Errorf("drop: %w", err)
	}

	s := &Simulation{
		cfg:     cfg,
		tracker: tracker,
	}
	if err := s.SetField(cfg.Field); err != nil {
		return nil, err
	}
	if err := s.Restart(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLogger attaches a logger for impact and settle events. A nil logger
// disables logging.
func (s *Simulation) SetLogger(l *log.Logger) {
	s.logger = l
}

// SetField replaces the field scale, e.g. after the terminal was resized.
// The motion is not affected.
func (s *Simulation) SetField(field config.FieldConfig) error {
	m, err := viewport.NewMapper(field.Width, field.Height, field.PixelsPerMeter)
	if err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	s.cfg.Field = field
	s.mapper = m
	s.sample = s.locate(s.sample)
	return nil
}

// Restart puts the body back at its configured start state and begins a new
// run record.
func (s *Simulation) Restart() error {
	if err := s.tracker.Configure(s.cfg.Drop.StartHeight, s.cfg.Drop.StartVelocity); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	s.elapsed = 0
	s.record = RunRecord{
		Config:     s.cfg,
		PeakHeight: s.tracker.PeakHeight(),
	}
	s.sample = s.locate(Sample{
		Height:   s.tracker.Position(),
		Velocity: s.tracker.Velocity(),
	})
	return nil
}

// Render advances the body by delta and records the new sample.
// It satisfies frame.RenderFunc: the result is false once the body has
// stopped, telling the driver not to schedule another frame.
func (s *Simulation) Render(_, delta time.Duration) bool {
	if s.tracker.IsStopped() {
		return false
	}

	start := s.elapsed
	step := s.tracker.AdvanceDetailed(frame.Seconds(delta))
	if delta > 0 {
		s.elapsed += delta
	}

	for _, imp := range step.Impacts {
		rec := ImpactRecord{
			Seq:           len(s.record.Impacts) + 1,
			At:            start + time.Duration(imp.At*float64(time.Second)),
			IncomingSpeed: imp.IncomingSpeed,
			OutgoingSpeed: imp.OutgoingSpeed,
		}
		s.record.Impacts = append(s.record.Impacts, rec)
		s.debug("impact", "seq", rec.Seq, "at", rec.At, "in", rec.IncomingSpeed, "out", rec.OutgoingSpeed)
	}
	s.record.Bounces = s.tracker.Bounces()

	switch {
	case step.Settled && !s.record.Settled:
		s.record.Settled = true
		s.record.SettleTime = s.elapsed
		s.debug("settled", "after", s.elapsed, "bounces", s.record.Bounces)
	case step.Stopped && !step.Settled && !s.record.Settled:
		// No ground crossing could be solved; the body is frozen, not resting.
		s.debug("frozen", "after", s.elapsed, "height", step.Position)
	}

	s.sample = s.locate(Sample{
		Elapsed:  s.elapsed,
		Height:   step.Position,
		Velocity: step.Velocity,
		Bounces:  s.tracker.Bounces(),
		Stopped:  step.Stopped,
	})
	return !step.Stopped
}

// locate fills the display position of a sample. Heights above the field are
// pinned to the top row.
func (s *Simulation) locate(sm Sample) Sample {
	col, err := s.mapper.MapX(s.mapper.WidthMeters() / 2)
	if err != nil {
		col = 0
	}
	sm.Col = col

	row, err := s.mapper.MapY(sm.Height)
	sm.OffField = err != nil
	if sm.OffField {
		row = 0
	}
	sm.Row = row
	return sm
}

func (s *Simulation) debug(msg string, keyvals ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, keyvals...)
}

// Sample returns the state after the latest frame.
func (s *Simulation) Sample() Sample {
	return s.sample
}

// Record returns a copy of the current run record.
func (s *Simulation) Record() RunRecord {
	rec := s.record
	rec.Impacts = append([]ImpactRecord(nil), s.record.Impacts...)
	return rec
}

// Stopped reports whether the body has stopped moving.
func (s *Simulation) Stopped() bool {
	return s.tracker.IsStopped()
}

// Elapsed returns the simulated time since the last restart.
func (s *Simulation) Elapsed() time.Duration {
	return s.elapsed
}

// Config returns the configuration the simulation runs with.
func (s *Simulation) Config() config.DropConfig {
	return s.cfg
}

// Mapper returns the current coordinate mapper.
func (s *Simulation) Mapper() *viewport.Mapper {
	return s.mapper
}

// PeakHeight returns the apex of the current flight.
func (s *Simulation) PeakHeight() float64 {
	return s.tracker.PeakHeight()
}
