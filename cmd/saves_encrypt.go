package cmd

import (
	"fmt"

	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/spf13/cobra"
)

var (
	encryptID    string
	encryptYes   bool
	encryptFlags batchFlags
)

func init() {
	encryptCmd.Flags().StringVar(&encryptID, "id", "", "SteamID to bind the saves to")
	encryptCmd.Flags().BoolVarP(&encryptYes, "yes", "y", false, "encrypt even if the input looks already encrypted")
	encryptFlags.register(encryptCmd)
	SavesCmd.AddCommand(encryptCmd)
}

// resetEncryptCommandState resets the encrypt command's global state for testing.
func resetEncryptCommandState() {
	encryptID = ""
	encryptYes = false
	encryptFlags.reset()
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <input-folder>",
	Short: "Encrypt save files for a SteamID",
	Long: `Encrypts every save file under the input folder for the given SteamID and
writes the results to a new folder with the same layout.

If the first file already looks encrypted, you are asked to confirm before
anything is written. Without a terminal the run is cancelled unless --yes
is given.

Examples:
  idresign saves encrypt ./saves_decrypted --id 76561198000000001
  idresign saves encrypt ./saves_decrypted --id 76561198000000001 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		Logger.Debugf("Flags: id=%s, title=%s, output=%s, include=%v, yes=%t",
			encryptID, encryptFlags.title, encryptFlags.output, encryptFlags.include, encryptYes)

		job, message, err := buildJob(saves.ModeEncrypt, args[0], encryptFlags)
		if err != nil {
			return err
		}
		if message != "" {
			fmt.Println(message)
			return nil
		}
		job.Identity = encryptID

		return runBatch(job, encryptYes)
	},
}
