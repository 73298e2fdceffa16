package viewer

import (
	"sync"

	"github.com/rs/zerolog"
)

// Service holds the viewer transform state. Every setter is total: out of
// range values are clamped, never rejected, so the state is always valid.
// The single exception is the window/level preset, where an unknown name
// is an error because there is no sensible clamp.
type Service struct {
	mu     sync.Mutex
	state  State
	logger zerolog.Logger
}

// NewService starts from the default transform tuple.
func NewService(logger zerolog.Logger) *Service {
	return &Service{state: DefaultState(), logger: logger}
}

// State returns a snapshot of the current transform tuple.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetZoom clamps into [ZoomMin, ZoomMax] and snaps to ZoomStep.
func (s *Service) SetZoom(v int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Zoom = snapZoom(v)
	return s.state
}

// ZoomIn moves one step toward ZoomMax.
func (s *Service) ZoomIn() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Zoom = clamp(s.state.Zoom+ZoomStep, ZoomMin, ZoomMax)
	return s.state
}

// ZoomOut moves one step toward ZoomMin.
func (s *Service) ZoomOut() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Zoom = clamp(s.state.Zoom-ZoomStep, ZoomMin, ZoomMax)
	return s.state
}

// SetBrightness clamps into [BrightnessMin, BrightnessMax].
func (s *Service) SetBrightness(v int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Brightness = clamp(v, BrightnessMin, BrightnessMax)
	return s.state
}

// SetContrast clamps into [ContrastMin, ContrastMax].
func (s *Service) SetContrast(v int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Contrast = clamp(v, ContrastMin, ContrastMax)
	return s.state
}

// SetWindowLevel applies a preset: the name plus its fixed
// brightness/contrast pair change together or not at all.
func (s *Service) SetWindowLevel(preset string) (State, error) {
	pair, ok := windowPresets[preset]
	if !ok {
		return s.State(), errUnknownPreset(preset)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.WindowLevel = preset
	s.state.Brightness = pair.brightness
	s.state.Contrast = pair.contrast
	return s.state, nil
}

// ToggleHeatmap flips heatmap visibility.
func (s *Service) ToggleHeatmap() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ShowHeatmap = !s.state.ShowHeatmap
	return s.state
}

// SetHeatmapOpacity clamps into [OpacityMin, OpacityMax].
func (s *Service) SetHeatmapOpacity(v int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HeatmapOpacity = clamp(v, OpacityMin, OpacityMax)
	return s.state
}

// SetActiveHeatmapFinding records the finding driving the overlay and
// derives visibility from it: a named finding shows the heatmap, clearing
// the name hides it.
func (s *Service) SetActiveHeatmapFinding(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ActiveHeatmapFinding = name
	s.state.ShowHeatmap = name != ""
	return s.state
}

// Reset restores the exact default tuple regardless of current state.
func (s *Service) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultState()
	return s.state
}
