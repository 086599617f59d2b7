package cmd

import (
	logger "github.com/PolarWolf314/idresign/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	SavesCmd = &cobra.Command{
		Use:   "saves",
		Short: "Resign, decrypt, encrypt and inspect game save files",
		Long: `Transforms AES-GCM protected save files bound to a SteamID.

A run processes every recognized save file under an input folder and writes
the results, with the same layout, to a new output folder alongside an
INFO.txt summary. The output folder must be outside the input folder, so
the input folder is never modified.

Examples:
  # Move saves from one Steam account to another
  idresign saves resign ./saves --old 76561198000000001 --new 76561198000000002

  # Decrypt saves for editing
  idresign saves decrypt ./saves --id 76561198000000001 --title MANCUBUS

  # Encrypt edited saves back
  idresign saves encrypt ./saves_decrypted --id 76561198000000001`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing saves command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	SavesCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SavesCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// GetSavesCmd returns the SavesCmd for testing.
func GetSavesCmd() *cobra.Command {
	return SavesCmd
}

// ResetGlobalState resets all saves command global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetResignCommandState()
	resetDecryptCommandState()
	resetEncryptCommandState()
	resetInspectCommandState()
	resetLogCommandState()
	resetSavesCobraFlagState()
}

// resetSavesCobraFlagState clears Changed on every saves flag so one test's
// flags do not leak into the next.
func resetSavesCobraFlagState() {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		if sv, ok := flag.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
			return
		}
		_ = flag.Value.Set(flag.DefValue)
	}
	SavesCmd.PersistentFlags().VisitAll(reset)
	for _, sub := range SavesCmd.Commands() {
		sub.Flags().VisitAll(reset)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
