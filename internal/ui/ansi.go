// Package ui prints the one-shot command output: framed panels, status
// lines and note listings in the current theme.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
	symWarn  = "!"
)

// ColorMode decides when escape sequences are written.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // only when Stdout is a terminal
	ColorAlways                  // even into pipes and files
	ColorNever
)

var mode ColorMode

// Stdout and Stderr are where the helpers print. Tests swap them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// SetColorMode applies m to these helpers and to everything lipgloss renders,
// so the TUI follows the same setting.
func SetColorMode(m ColorMode) {
	mode = m
	switch m {
	case ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func isTTY() bool {
	f, ok := Stdout.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when colors are on. An empty color leaves s as is.
func C(color, s string) string {
	if mode == ColorNever || color == "" {
		return s
	}
	if mode == ColorAlways || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(Stdout, C(current.Success, symCheck+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Stderr, C(current.Warn, symWarn+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(Stderr, C(current.Error, symCross+" "+msg)) }
