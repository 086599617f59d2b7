package cmd

import (
	"github.com/PolarWolf314/idresign/internal/configs"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(setOutputCmd)
}

var setOutputCmd = &cobra.Command{
	Use:   "set-output <dir>",
	Short: "Create output folders under a fixed directory",
	Long: `Sets the directory in which resign, decrypt and encrypt create their
output folders when --output is not given. The directory must exist and is
stored as an absolute path.

Examples:
  idresign config set-output ~/save-backups`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting set-output command")
		spinner, cleanup := startSpinnerWithFlags("Setting output directory...", configVerbose, configDebug)
		defer cleanup()

		ConfigLogger.Debugf("Directory argument: %s", args[0])
		userConfig, err := configs.SetOutputDir(args[0])
		if err != nil {
			ConfigLogger.Errorf("Failed to set output dir: %v", err)
			spinner.FinalMSG = ui.FailureLine("Could not use "+ui.Path.Sprint(args[0])+" as output directory") + "\n" +
				ui.ErrorDetail(err)
			return nil
		}

		ConfigLogger.Infof("Output directory set successfully")
		spinner.FinalMSG = ui.SuccessLine("Output folders will be created in " + ui.Path.Sprint(userConfig.Output.Dir))
		return nil
	},
}
