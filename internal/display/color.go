// Package display renders the masjid board and tables for the terminal.
//
// Colors are raw ANSI escape codes. They respect NO_COLOR
// (https://no-color.org/) and are disabled when stdout is not a terminal.
package display

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	fgGray = "\033[90m"
)

var enabled = detect(os.Stdout.Fd())

func detect(fd uintptr) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected color state. --json forces it off.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is active.
func Enabled() bool {
	return enabled
}

func wrap(code, text string) string {
	if !enabled {
		return text
	}
	return code + text + reset
}

func Bold(text string) string   { return wrap(bold, text) }
func Dim(text string) string    { return wrap(dim, text) }
func Red(text string) string    { return wrap(red, text) }
func Green(text string) string  { return wrap(green, text) }
func Yellow(text string) string { return wrap(yellow, text) }
func Cyan(text string) string   { return wrap(cyan, text) }
func Gray(text string) string   { return wrap(fgGray, text) }

// Accent highlights the current or next prayer (cyan + bold).
func Accent(text string) string {
	return wrap(bold+cyan, text)
}

// Phase colors text by masjid status kind: prayer is red, azkar is green and
// an iqama countdown is yellow. Anything else is left plain.
func Phase(kind, text string) string {
	switch kind {
	case "prayer":
		return Red(text)
	case "azkar":
		return Green(text)
	case "iqama":
		return Yellow(text)
	default:
		return text
	}
}
