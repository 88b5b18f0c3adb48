// Package color holds ANSI escape sequences for terminal output.
package color

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Red         = "\033[0;31m"
	BoldRed     = "\033[1;31m"
	Green       = "\033[0;32m"
	BoldGreen   = "\033[1;32m"
	Yellow      = "\033[0;33m"
	BoldYellow  = "\033[1;33m"
	Blue        = "\033[0;34m"
	BoldBlue    = "\033[1;34m"
	Magenta     = "\033[0;35m"
	BoldMagenta = "\033[1;35m"
	Cyan        = "\033[0;36m"
	BoldCyan    = "\033[1;36m"
	Reset       = "\033[0m"
)

// Enabled reports whether f is a terminal that should receive colors.
// NO_COLOR disables colors regardless.
func Enabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Painter wraps strings in escape sequences when On.
type Painter struct {
	On bool
}

func (p Painter) Wrap(code, s string) string {
	if !p.On || code == "" {
		return s
	}
	return code + s + Reset
}
