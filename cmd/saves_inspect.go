package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/PolarWolf314/idresign/internal/utils"
	"github.com/PolarWolf314/idresign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	inspectInclude []string
	inspectJSON    bool
)

func init() {
	inspectCmd.Flags().StringSliceVar(&inspectInclude, "include", nil, "only inspect files matching these glob patterns")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON array")
	SavesCmd.AddCommand(inspectCmd)
}

// resetInspectCommandState resets the inspect command's global state for testing.
func resetInspectCommandState() {
	inspectInclude = nil
	inspectJSON = false
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Show which save files look encrypted",
	Long: `Lists each recognized save file with its size, byte entropy and whether it
looks encrypted. The path may be a folder or a single file. Nothing is
decrypted or written.

Examples:
  idresign saves inspect ./saves
  idresign saves inspect ./saves/GAME-AUTOSAVE1/slot0.bin
  idresign saves inspect ./saves --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting inspect command")

		result, err := workflows.Inspect(context.Background(), workflows.InspectOptions{
			Path:    args[0],
			Include: inspectInclude,
		})
		if err != nil {
			fmt.Println(formatRunError(err, ""))
			if errors.Is(err, kerrors.ErrPathNotFound) || errors.Is(err, kerrors.ErrNoSupportedFiles) {
				return nil
			}
			return err
		}
		Logger.Debugf("Inspected %d files, skipped %d", len(result.Files), len(result.Skipped))

		if inspectJSON {
			data, err := json.MarshalIndent(result.Files, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to marshal report to JSON: %v", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("%-48s  %10s  %7s  %s\n", "FILE", "SIZE", "ENTROPY", "ENCRYPTED")
		for _, f := range result.Files {
			verdict := ui.Muted.Sprint("no")
			if f.LooksEncrypted {
				verdict = ui.Success.Sprint("yes")
			}
			fmt.Printf("%-48s  %10d  %7.2f  %s\n", f.RelPath, f.Size, f.Entropy, verdict)
		}
		fmt.Println()
		fmt.Printf("%s, %d look encrypted\n", utils.Plural(len(result.Files), "save file"), result.Encrypted())
		if len(result.Skipped) > 0 {
			fmt.Println(ui.Muted.Sprint(utils.Plural(len(result.Skipped), "other file") + " ignored"))
		}
		return nil
	},
}
