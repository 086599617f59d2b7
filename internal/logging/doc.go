// Package logger provides leveled console logging for idresign commands.
//
// Output is prefixed with colored level tags ([info], [debug], [warn],
// [error]) using fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows everything, including debug details and errors
//
// Without flags only WarnfAlways output appears; user-facing results are
// printed by the commands themselves as final messages.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Processing %d files", count)
//
// Commands create a logger in their PersistentPreRun.
package logger
