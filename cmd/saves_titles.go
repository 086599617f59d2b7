package cmd

import (
	"fmt"

	"github.com/PolarWolf314/idresign/internal/configs"
	"github.com/PolarWolf314/idresign/internal/titles"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	SavesCmd.AddCommand(titlesCmd)
}

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List supported game titles",
	Long: `Lists the game titles whose saves can be processed, with the code to pass
to --title. The default title is marked.

Examples:
  idresign saves titles`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting titles command")

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load user config: %v", err)
		}
		current, err := configs.ResolveTitle("", userConfig)
		if err != nil {
			Logger.WarnfAlways("Configured default title is not supported: %v", err)
			current = titles.Default()
		}

		for _, t := range titles.All() {
			line := fmt.Sprintf("  %-10s %s", t.Code, t.Name)
			if t.Code == current.Code {
				line = fmt.Sprintf("  %-10s %s %s", ui.Highlight.Sprint(t.Code), t.Name, ui.Muted.Sprint("default"))
			}
			fmt.Println(line)
		}
		return nil
	},
}
