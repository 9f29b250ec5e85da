// Package clipboard writes text to the system clipboard on a best-effort basis.
//
// The terminal implementation uses the OSC 52 escape sequence, which most
// modern terminal emulators (and tmux with set-clipboard) honour. When stdout
// is not a terminal there is no clipboard to reach and the write is skipped.
package clipboard

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Writer copies text to a clipboard. Implementations never fail: a missing
// clipboard reports false and does nothing.
type Writer interface {
	Copy(text string) bool
}

// Terminal copies through OSC 52 on an attached terminal.
type Terminal struct {
	isTTY    bool
	copyFunc func(string)
}

// NewTerminal returns a clipboard bound to f (normally os.Stdout).
func NewTerminal(f *os.File) *Terminal {
	output := termenv.NewOutput(f)
	return &Terminal{
		isTTY:    term.IsTerminal(int(f.Fd())),
		copyFunc: output.Copy,
	}
}

// Copy writes text when a terminal is attached.
func (t *Terminal) Copy(text string) bool {
	if t == nil || !t.isTTY || t.copyFunc == nil {
		return false
	}
	t.copyFunc(text)
	return true
}

// Noop is the clipboard of an environment without one.
type Noop struct{}

// Copy does nothing.
func (Noop) Copy(string) bool { return false }

// Recorder keeps copied text in memory. Used by tests and dry runs.
type Recorder struct {
	Copied []string
}

// Copy records text.
func (r *Recorder) Copy(text string) bool {
	r.Copied = append(r.Copied, text)
	return true
}
