// Package configs manages user configuration for idresign.
//
// Configuration is a single TOML file in the user's config directory
// (for example ~/.config/idresign/config.toml):
//
//	[output]
//	dir = "/home/me/saves-out"
//
//	[defaults]
//	title = "SUKHOTHAI"
//
// output.dir is the parent directory for run outputs. When it is empty,
// outputs are written next to the input folder. defaults.title is used
// when a command is run without --title.
//
// # Settings
//
// Settings holds the config and data directory paths. It is initialized at
// startup and may be replaced in tests.
package configs
