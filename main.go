package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/idresign/cmd"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idresign",
	Short: "idresign - move, decrypt and encrypt SteamID-bound game saves.",
	Long: `idresign transforms save files that are encrypted with AES-GCM under a key
bound to a SteamID, a game title and the file name.

Features:
  - Resign saves from one SteamID to another
  - Decrypt saves for editing and encrypt them back
  - Inspect which save files look encrypted

Usage:
  idresign <command> [flags]

Available Commands:
  saves      Resign, decrypt, encrypt and inspect save files
  config     Manage output folder and default title

Run 'idresign help <command>' for more details on a specific command.
`,
	Run: func(c *cobra.Command, args []string) {
		fmt.Println()
		banner := figure.NewColorFigure("idresign", "small", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println(ui.HintLine("Run " + ui.Code.Sprint("idresign --help") + " to see available commands"))
	},
}

func init() {
	rootCmd.AddCommand(cmd.SavesCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
