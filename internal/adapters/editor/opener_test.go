package editor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_ConfiguredEditor(t *testing.T) {
	o := NewOpener("code --wait", "/lib")

	cmd, err := o.Command("openings/yagura.kifu.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait", filepath.Join("/lib", "openings/yagura.kifu.json")}, cmd.Args)
}

func TestCommand_Environment(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "ed")

	cmd, err := NewOpener("", "/lib").Command("/tmp/game.kifu.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"ed", "/tmp/game.kifu.json"}, cmd.Args)

	t.Setenv("VISUAL", "hx")
	cmd, err = NewOpener("", "/lib").Command("/tmp/game.kifu.json")
	require.NoError(t, err)
	assert.Equal(t, "hx", cmd.Args[0])
}

func TestCommand_NoRecord(t *testing.T) {
	_, err := NewOpener("vi", "/lib").Command("")
	assert.Error(t, err)
}
