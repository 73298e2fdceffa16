package viewer

import "fmt"

// Window/level presets. Each preset atomically pins brightness and
// contrast to a fixed pair tuned for the tissue of interest.
const (
	WindowLung       = "lung"
	WindowSoftTissue = "soft-tissue"
	WindowBone       = "bone"
)

type windowPair struct {
	brightness int
	contrast   int
}

var windowPresets = map[string]windowPair{
	WindowLung:       {brightness: 100, contrast: 150},
	WindowSoftTissue: {brightness: 100, contrast: 100},
	WindowBone:       {brightness: 120, contrast: 180},
}

func errUnknownPreset(name string) error {
	return fmt.Errorf("unknown window/level preset %q", name)
}

// Transform limits. Zoom moves in steps of ZoomStep percent.
const (
	ZoomMin  = 50
	ZoomMax  = 200
	ZoomStep = 10

	BrightnessMin = 50
	BrightnessMax = 150

	ContrastMin = 50
	ContrastMax = 200

	OpacityMin = 0
	OpacityMax = 100
)

// State is the full viewer transform tuple. All values are percentages.
type State struct {
	Zoom                 int    `json:"zoom"`
	Brightness           int    `json:"brightness"`
	Contrast             int    `json:"contrast"`
	WindowLevel          string `json:"windowLevel"`
	ShowHeatmap          bool   `json:"showHeatmap"`
	HeatmapOpacity       int    `json:"heatmapOpacity"`
	ActiveHeatmapFinding string `json:"activeHeatmapFinding,omitempty"`
}

// DefaultState returns the tuple every session and Reset starts from.
func DefaultState() State {
	return State{
		Zoom:           100,
		Brightness:     100,
		Contrast:       100,
		WindowLevel:    WindowLung,
		ShowHeatmap:    false,
		HeatmapOpacity: 50,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// snapZoom clamps into the zoom range and rounds to the nearest step.
func snapZoom(v int) int {
	v = clamp(v, ZoomMin, ZoomMax)
	rounded := ((v + ZoomStep/2) / ZoomStep) * ZoomStep
	return clamp(rounded, ZoomMin, ZoomMax)
}
