package core

// Color is the role of a screen cell. The platform picks the terminal color
// for each role, so scenes never deal with ANSI codes.
type Color uint8

const (
	ColorDefault  Color = iota
	ColorBall           // The body while it is inside the field
	ColorOffField       // Marker for a body above the top of the field
	ColorFrame          // Boxes and launch guides
	ColorGround         // Ground line
	ColorStatus         // "At rest" and other scene status lines
	ColorGauge          // Peak height gauge
	ColorTrail          // Plotted heights
	ColorImpact         // Ground contact markers
	ColorBanner         // Host overlays such as the pause banner
)
