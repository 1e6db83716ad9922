package models

// AppState holds the application state
type AppState struct {
	Width     int
	Height    int
	FocusArea FocusArea
	ViewMode  ViewMode

	// Document state
	Source     string // File name or "stdin"
	Tree       *Node  // Root of the rendered tree
	CursorPath string // Address under the cursor
}

// FocusArea identifies which component receives key input
type FocusArea int

const (
	FocusTree FocusArea = iota
	FocusEditor
	FocusSearch
	FocusPreview
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:     80,
		Height:    24,
		FocusArea: FocusTree,
		ViewMode:  NormalMode,
	}
}
