// Package utils provides shared helpers for idresign.
//
// # Filesystem Utilities
//
//   - WriteFileAll: writes a file, creating parent directories
//   - MirrorPath: maps a path under one root to the same place under another
//
// # String Utilities
//
//   - FormatPaths: formats file paths as an indented list
//   - Plural: "1 file" / "3 files"
//
// # Terminal Utilities
//
//   - IsTerminal: checks whether stdin is a terminal
//   - Confirm: reads a y/N answer
package utils
