package views

import "kifunav/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// listHeight is the number of list rows that fit beside the chrome
func (s *ViewState) listHeight(chrome int) int {
	if s.Height-chrome < 5 {
		return 5
	}
	return s.Height - chrome
}

// SwitchToBrowserMsg returns to the record browser
type SwitchToBrowserMsg struct{}

// SwitchToHelpMsg shows the help view
type SwitchToHelpMsg struct{}

// SwitchToSearchMsg searches for a position. CurrentPath is the record
// the position was taken from.
type SwitchToSearchMsg struct {
	PositionKey string
	CurrentPath string
}

// OpenRecordMsg opens a record in the browser at a cursor
type OpenRecordMsg struct {
	Path   string
	Cursor domain.Cursor
}

// OpenEditorMsg requests opening a record in the external editor
type OpenEditorMsg struct {
	Path string
}
