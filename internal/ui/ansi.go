package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color. Whether the sequences survive is decided when the
// line is written, see Fprintln.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	return color + s + reset
}

// Fprintln writes s to w, stripping ANSI sequences unless w is a terminal
// or colors are forced.
func Fprintln(w io.Writer, s string) {
	if !forceColor && !isTTY(w) {
		s = ansi.Strip(s)
	}
	fmt.Fprintln(w, s)
}

func Success(msg string) string { return C(fgGreen, symCheck+" "+msg) }
func Failure(msg string) string { return C(fgRed, symCross+" "+msg) }
