// Package polybar renders the formatting tags understood by the polybar
// status bar.
package polybar

import "strings"

// ColorReset restores the default foreground colour
const ColorReset = "%{F-}"

// Foreground wraps text in a foreground colour tag
func Foreground(color, text string) string {
	return Color(color) + text + ColorReset
}

// Color opens a foreground colour tag without closing it
func Color(color string) string {
	return "%{F" + color + "}"
}

// Underline draws an underline of the given colour below text
func Underline(color, text string) string {
	return "%{u" + color + "}%{+u}" + text + "%{-u}"
}

// Action makes text clickable with the left mouse button, running command.
// Colons inside the command are escaped so they do not end the tag early.
func Action(command, text string) string {
	return "%{A1:" + strings.ReplaceAll(command, ":", `\:`) + ":}" + text + "%{A}"
}
