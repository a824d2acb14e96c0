package tui

// Scene identifies a screen in the TUI.
type Scene int

const (
	SceneHome Scene = iota
	SceneSweep
	SceneCurves
	SceneRates
	SceneSummary
	SceneHelp
)

// String returns a human-readable name for a scene.
func (s Scene) String() string {
	switch s {
	case SceneHome:
		return "Home"
	case SceneSweep:
		return "Sweep"
	case SceneCurves:
		return "Curves"
	case SceneRates:
		return "Discount Rates"
	case SceneSummary:
		return "Summary"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene.
type NavigateMsg struct {
	Scene Scene
}

// TickMsg drives the spinner animation while a sweep is in flight.
type TickMsg struct{}
