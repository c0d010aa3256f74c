package ports

import "os/exec"

// EditorOpener opens a record file in an external editor
type EditorOpener interface {
	// Command returns the process that edits path. It is run by the TUI
	// with the terminal handed over.
	Command(path string) (*exec.Cmd, error)
}
