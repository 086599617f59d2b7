package cmd

import (
	"github.com/PolarWolf314/idresign/internal/configs"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(clearOutputCmd)
}

var clearOutputCmd = &cobra.Command{
	Use:   "clear-output",
	Short: "Create output folders next to the input again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting clear-output command")
		spinner, cleanup := startSpinnerWithFlags("Clearing output directory...", configVerbose, configDebug)
		defer cleanup()

		if _, err := configs.ClearOutputDir(); err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		spinner.FinalMSG = ui.SuccessLine("Output folders will be created next to the input folder")
		return nil
	},
}
