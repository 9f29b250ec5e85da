package clipboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalSkipsWithoutTTY(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	cb := NewTerminal(f)
	assert.False(t, cb.Copy("Tax Info\nTax ID: GB123"))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "nothing written when no terminal is attached")
}

func TestNilTerminal(t *testing.T) {
	var cb *Terminal
	assert.False(t, cb.Copy("x"))
}

func TestNoopAndRecorder(t *testing.T) {
	assert.False(t, Noop{}.Copy("x"))

	rec := &Recorder{}
	assert.True(t, rec.Copy("a"))
	assert.True(t, rec.Copy("b"))
	assert.Equal(t, []string{"a", "b"}, rec.Copied)
}
