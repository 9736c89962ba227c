package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneOptimal Scene = iota
	SceneReverse
	SceneYearEnd
	SceneCliffs
	SceneHelp
)

// String returns the human-readable scene name
func (s Scene) String() string {
	switch s {
	case SceneOptimal:
		return "Separate vs Combined"
	case SceneReverse:
		return "Reverse Plan"
	case SceneYearEnd:
		return "Year-End Allocation"
	case SceneCliffs:
		return "Cliff Intervals"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ResultMsg carries a finished calculation for one scene. Err replaces any earlier result.
type ResultMsg struct {
	Scene  Scene
	Result any
	Err    error
}
