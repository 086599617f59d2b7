// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content by type (paths, codes, user values) and fall
// back to plain text decorations when NO_COLOR is set or the terminal has
// no color support:
//
//	ui.Code.Sprint("idresign saves titles")   // `idresign saves titles`
//	ui.Path.Sprint("GAME-AUTOSAVE1_resigned") // unchanged
//	ui.Highlight.Sprint("76561197960265728")  // '76561197960265728'
//	ui.Muted.Sprint("3 skipped")              // (3 skipped)
//
// The *Line helpers build the ✓ / ✗ / ⚠ / → lines that commands use for
// their final messages.
package ui
