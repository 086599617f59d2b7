package cmd

import (
	"fmt"

	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/spf13/cobra"
)

var (
	resignOld   string
	resignNew   string
	resignFlags batchFlags
)

func init() {
	resignCmd.Flags().StringVar(&resignOld, "old", "", "SteamID the saves are currently bound to")
	resignCmd.Flags().StringVar(&resignNew, "new", "", "SteamID to bind the saves to")
	resignFlags.register(resignCmd)
	SavesCmd.AddCommand(resignCmd)
}

// resetResignCommandState resets the resign command's global state for testing.
func resetResignCommandState() {
	resignOld = ""
	resignNew = ""
	resignFlags.reset()
}

var resignCmd = &cobra.Command{
	Use:   "resign <input-folder>",
	Short: "Rebind save files from one SteamID to another",
	Long: `Decrypts every save file under the input folder with the old SteamID and
encrypts it again for the new one. Results are written to a new folder with
the same layout.

The batch stops at the first file that fails to decrypt. This usually means
the old SteamID or the title is wrong.

Examples:
  idresign saves resign ./saves --old 76561198000000001 --new 76561198000000002
  idresign saves resign ./saves --old 76561198000000001 --new 76561198000000002 --title MANCUBUS
  idresign saves resign ./saves --old 76561198000000001 --new 76561198000000002 --include 'GAME-AUTOSAVE*/**'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting resign command")
		Logger.Debugf("Flags: old=%s, new=%s, title=%s, output=%s, include=%v",
			resignOld, resignNew, resignFlags.title, resignFlags.output, resignFlags.include)

		job, message, err := buildJob(saves.ModeResign, args[0], resignFlags)
		if err != nil {
			return err
		}
		if message != "" {
			fmt.Println(message)
			return nil
		}
		job.OldIdentity = resignOld
		job.NewIdentity = resignNew

		return runBatch(job, false)
	},
}
