package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/idresign/internal/audit"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/PolarWolf314/idresign/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit   int
	logReverse bool
	logMode    string
	logTitle   string
	logFailed  bool
	logSince   string
	logJSON    bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logMode, "mode", "", "filter by mode (comma-separated: resign,decrypt,encrypt)")
	logCmd.Flags().StringVar(&logTitle, "title", "", "filter by title code")
	logCmd.Flags().BoolVar(&logFailed, "failed", false, "only show failed runs")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")

	SavesCmd.AddCommand(logCmd)
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logMode = ""
	logTitle = ""
	logFailed = false
	logSince = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the history of runs",
	Long: `Displays the audit log of resign, decrypt and encrypt runs.

Every run that got past validation is recorded, including failed ones.

Examples:
  idresign saves log                     # View full log
  idresign saves log -n 10               # Last 10 entries
  idresign saves log --reverse           # Most recent first
  idresign saves log --mode resign       # Only resigns
  idresign saves log --failed            # Only failures
  idresign saves log --json              # JSON output`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	opts := workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Modes:      logMode,
		Title:      logTitle,
		FailedOnly: logFailed,
		Since:      logSince,
	}

	result, err := workflows.Log(context.Background(), opts)
	if err != nil {
		if errors.Is(err, kerrors.ErrNoAuditLog) {
			fmt.Println(ui.Info.Sprint("ℹ") + " No runs recorded yet. Runs are logged after any resign, decrypt or encrypt.")
			return nil
		}
		Logger.Errorf("Failed to read audit log: %v", err)
		fmt.Println(ui.FailureLine("Failed to read audit log: " + err.Error()))
		return nil
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Println("No audit log entries found.")
		} else {
			fmt.Println("No audit log entries found matching the filters.")
		}
		return nil
	}

	if logJSON {
		return outputLogJSON(result.Entries)
	}
	outputLogDefault(result.Entries)
	return nil
}

func outputLogJSON(entries []audit.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries to JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func outputLogDefault(entries []audit.Entry) {
	for _, e := range entries {
		fmt.Printf("%-19s  %-8s  %-10s  %-37s  %s\n",
			workflows.FormatDateTime(e), e.Operation, e.Title, workflows.FormatIdentities(e), workflows.FormatDetails(e))
	}
}
