package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"kifunav/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	command string
	root    string
}

var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates an opener for records under root. command may carry
// arguments ("code --wait"); when empty the editor comes from the
// environment.
func NewOpener(command, root string) *Opener {
	return &Opener{command: command, root: root}
}

// Command returns an exec.Cmd editing path, for use with tea.ExecProcess.
// Relative paths are taken from the library root.
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv := strings.Fields(o.findEditor())
	if len(argv) == 0 {
		return nil, fmt.Errorf("no editor found: set editor.command or $EDITOR")
	}
	if path == "" {
		return nil, fmt.Errorf("no record open")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.root, path)
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the configured command, then $VISUAL, $EDITOR and
// the first common editor found on PATH
func (o *Opener) findEditor() string {
	if o.command != "" {
		return o.command
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
