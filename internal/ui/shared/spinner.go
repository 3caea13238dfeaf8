package shared

// SpinnerType identifies the loading indicator style.
type SpinnerType int

const (
	// SpinnerDots is the default braille spinner.
	SpinnerDots SpinnerType = iota
	// SpinnerPulse cycles through diamond shapes.
	SpinnerPulse
	// SpinnerLine is a plain ASCII line spinner.
	SpinnerLine
)

// Spinner animation frames by type.
var (
	FramesDots  = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	FramesPulse = []string{"◇", "◈", "◆", "◈"}
	FramesLine  = []string{"|", "/", "-", "\\"}
)

// GetSpinnerFrames returns the animation frames for a given spinner type.
func GetSpinnerFrames(t SpinnerType) []string {
	switch t {
	case SpinnerPulse:
		return FramesPulse
	case SpinnerLine:
		return FramesLine
	default:
		return FramesDots
	}
}

// ParseSpinnerType maps a config name to a spinner type. Unknown names
// yield SpinnerDots.
func ParseSpinnerType(name string) SpinnerType {
	switch name {
	case "pulse":
		return SpinnerPulse
	case "line":
		return SpinnerLine
	default:
		return SpinnerDots
	}
}
