package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/idresign/internal/configs"
	"github.com/PolarWolf314/idresign/internal/titles"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Displays the current idresign configuration and where it is stored.

Examples:
  # Show user configuration
  idresign config show

  # Output in JSON format
  idresign config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		ConfigLogger.Debugf("Loading user config from %s", configs.ConfigPath())

		userConfig, err := configs.LoadUserConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load user config: %v", err)
		}
		for _, key := range userConfig.Unknown {
			ConfigLogger.Warnf("Unknown key %s in config file", key)
		}

		if configShowJSON {
			output, err := json.MarshalIndent(userConfig, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		outputDir := ui.Muted.Sprint("next to the input folder")
		if userConfig.Output.Dir != "" {
			outputDir = ui.Path.Sprint(userConfig.Output.Dir)
		}

		title := titles.Default().String() + " " + ui.Muted.Sprint("built-in default")
		if userConfig.Defaults.Title != "" {
			if t, err := titles.Lookup(userConfig.Defaults.Title); err == nil {
				title = t.String()
			} else {
				title = ui.Error.Sprint(userConfig.Defaults.Title) + " " + ui.Muted.Sprint("not supported")
			}
		}

		fmt.Println(ui.Info.Sprint("User Configuration") + " (" + configs.ConfigPath() + "):")
		fmt.Println()
		fmt.Printf("  %-14s %s\n", "Output dir:", outputDir)
		fmt.Printf("  %-14s %s\n", "Default title:", title)
		fmt.Printf("  %-14s %s\n", "Audit log:", configs.AuditLogPath())
		return nil
	},
}
