// Package ui provides semantic text formatting for envcloak's console output.
//
// Formatters render content by kind (paths, commands, status markers) and
// fall back to plain text decorations when colors are unavailable.
//
//	ui.Code.Sprint("envcloak generate-key")   // Commands
//	ui.Path.Sprint(".env.enc")                // File paths
//	ui.Success.Sprint("✓")                    // Success indicators
//	ui.Error.Sprint("✗")                      // Error indicators
//	ui.Warning.Sprint("[dry-run]")            // Warnings
//	ui.Info.Sprint("→")                       // Hints
//	ui.Muted.Sprint("3 files")                // Secondary text
//
// Colors are disabled when NO_COLOR is set or the terminal lacks color
// support. Without colors, Code is wrapped in `backticks` and Muted in
// (parentheses); the other formatters print their text unchanged.
package ui
