// Package logger provides leveled, colorized console output.
package logger

import (
	"github.com/fatih/color"
)

// Info prints informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn prints warnings in yellow.
var Warn = color.New(color.FgYellow).PrintfFunc()

// Error prints errors in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug prints diagnostic messages in cyan when verbose mode is enabled,
// otherwise it is a no-op. Assigned by Init.
var Debug func(format string, a ...any) = func(format string, a ...any) {}

// Init enables or disables debug output.
func Init(verbose bool) {
	if verbose {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
