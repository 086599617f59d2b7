package cmd

import (
	"errors"
	"strings"

	"github.com/PolarWolf314/idresign/internal/configs"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/titles"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(setTitleCmd)
}

var setTitleCmd = &cobra.Command{
	Use:   "set-title <code>",
	Short: "Set the title used when --title is not given",
	Long: `Sets the default title code in your user configuration.

Supported codes: ` + strings.Join(titles.Codes(), ", ") + `

Examples:
  idresign config set-title MANCUBUS`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting set-title command")
		spinner, cleanup := startSpinnerWithFlags("Setting default title...", configVerbose, configDebug)
		defer cleanup()

		code := args[0]
		ConfigLogger.Debugf("Title argument: %s", code)

		userConfig, err := configs.SetDefaultTitle(code)
		if errors.Is(err, kerrors.ErrUnknownTitle) {
			spinner.FinalMSG = ui.FailureLine("Unknown title "+ui.Highlight.Sprint(code)) + "\n" +
				ui.HintLine("Supported codes: "+strings.Join(titles.Codes(), ", "))
			return nil
		}
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to save user config: %v", err)
		}

		t, _ := titles.Lookup(userConfig.Defaults.Title)
		ConfigLogger.Infof("Default title set to %s", t.Code)
		spinner.FinalMSG = ui.SuccessLine("Default title set to " + ui.Highlight.Sprint(t.String()))
		return nil
	},
}
