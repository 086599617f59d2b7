package cmd

import (
	"fmt"

	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/spf13/cobra"
)

var (
	decryptID    string
	decryptFlags batchFlags
)

func init() {
	decryptCmd.Flags().StringVar(&decryptID, "id", "", "SteamID the saves are bound to")
	decryptFlags.register(decryptCmd)
	SavesCmd.AddCommand(decryptCmd)
}

// resetDecryptCommandState resets the decrypt command's global state for testing.
func resetDecryptCommandState() {
	decryptID = ""
	decryptFlags.reset()
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <input-folder>",
	Short: "Decrypt save files for a SteamID",
	Long: `Decrypts every save file under the input folder and writes the plaintext
to a new folder with the same layout.

Examples:
  idresign saves decrypt ./saves --id 76561198000000001
  idresign saves decrypt ./saves --id 76561198000000001 --output ./plain`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		Logger.Debugf("Flags: id=%s, title=%s, output=%s, include=%v",
			decryptID, decryptFlags.title, decryptFlags.output, decryptFlags.include)

		job, message, err := buildJob(saves.ModeDecrypt, args[0], decryptFlags)
		if err != nil {
			return err
		}
		if message != "" {
			fmt.Println(message)
			return nil
		}
		job.Identity = decryptID

		return runBatch(job, false)
	},
}
