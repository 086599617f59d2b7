package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PolarWolf314/idresign/internal/configs"
	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
	"github.com/PolarWolf314/idresign/internal/ui"
	"github.com/PolarWolf314/idresign/internal/utils"
	"github.com/PolarWolf314/idresign/internal/workflows"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// Overridden by tests.
var (
	stdinIsTerminal             = utils.IsTerminal
	confirmInput      io.Reader = os.Stdin
	confirmOutput     io.Writer = os.Stdout
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	return startSpinnerWithFlags(message, verbose, debug)
}

// startSpinnerWithFlags creates and starts a spinner with explicit verbose and debug flags.
// This is useful for commands that have their own flag variables (e.g., config commands).
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	quiet := !verbose && !debugFlag
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// setSpinnerSuffix updates a running spinner from another goroutine.
func setSpinnerSuffix(s *spinner.Spinner, suffix string) {
	s.Lock()
	s.Suffix = " " + suffix
	s.Unlock()
}

// batchFlags are the flags shared by resign, decrypt and encrypt.
type batchFlags struct {
	title   string
	output  string
	include []string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "title code of the game (see 'idresign saves titles')")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output folder (default: <input>_<mode> next to the input or in the configured output dir)")
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "only process files matching these glob patterns, relative to the input (e.g. 'slot0/**')")
}

func (f *batchFlags) reset() {
	f.title = ""
	f.output = ""
	f.include = nil
}

// buildJob resolves title and output root from flags and user config.
// A non-empty message means the job could not be built and should be shown
// to the user as is.
func buildJob(mode saves.Mode, input string, flags batchFlags) (workflows.Job, string, error) {
	userConfig, err := configs.LoadUserConfig()
	if err != nil {
		return workflows.Job{}, "", Logger.ErrorfAndReturn("Failed to load user config: %v", err)
	}
	if len(userConfig.Unknown) > 0 {
		Logger.Warnf("Ignoring unknown keys in %s: %s", configs.ConfigPath(), strings.Join(userConfig.Unknown, ", "))
	}

	title, err := configs.ResolveTitle(flags.title, userConfig)
	if err != nil {
		return workflows.Job{}, formatRunError(err, ""), nil
	}
	Logger.Debugf("Using title %s", title)

	output := flags.output
	if output == "" {
		output = workflows.DefaultOutputRoot(mode, input, userConfig.Output.Dir)
	}
	Logger.Debugf("Input root: %s, output root: %s", input, output)

	return workflows.Job{
		Mode:       mode,
		InputRoot:  input,
		OutputRoot: output,
		TitleCode:  title.Code,
		Include:    flags.include,
	}, "", nil
}

// runBatch drives a job through the runner: validation, the confirmation
// gate for encrypt, then the worker with a spinner.
func runBatch(job workflows.Job, assumeYes bool) error {
	ctx := context.Background()
	verb := strings.ToUpper(job.Mode.String()[:1]) + job.Mode.String()[1:]

	// Set once the spinner exists; read from the worker goroutine.
	var current atomic.Pointer[spinner.Spinner]
	runner := workflows.NewRunner(job, workflows.WithProgress(func(index, total int, name string) {
		Logger.Infof("%sing %s (%d/%d)", verb, name, index+1, total)
		if s := current.Load(); s != nil {
			setSpinnerSuffix(s, fmt.Sprintf("%sing %s (%d/%d)...", verb, name, index+1, total))
		}
	}))

	state, err := runner.Start(ctx)
	if err != nil {
		Logger.Errorf("Validation failed: %v", err)
		fmt.Println(formatRunError(err, ""))
		return nil
	}

	if state == workflows.StateAwaitingConfirmation {
		proceed, err := confirmEncrypt(job, assumeYes)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read confirmation: %v", err)
		}
		if !proceed {
			if err := runner.Cancel(); err != nil {
				return Logger.ErrorfAndReturn("Failed to cancel run: %v", err)
			}
			return nil
		}
		if _, err := runner.Confirm(ctx); err != nil {
			return Logger.ErrorfAndReturn("Failed to confirm run: %v", err)
		}
	}

	// The spinner starts after the gate so the prompt is not overdrawn.
	spin, cleanup := startSpinner(fmt.Sprintf("%sing saves...", verb), verbose)
	defer cleanup()
	current.Store(spin)

	outcome, err := runner.Wait(ctx)
	if err != nil {
		return Logger.ErrorfAndReturn("Failed waiting for %s: %v", job.Mode, err)
	}

	if outcome.Status == workflows.StateFailed {
		Logger.Errorf("Run failed: %v", outcome.Err)
		spin.FinalMSG = formatRunError(outcome.Err, outcome.Message)
		if isUnexpectedRunError(outcome.Err) {
			return outcome.Err
		}
		return nil
	}

	result := outcome.Result
	if len(result.Skipped) > 0 {
		Logger.Infof("Skipped %s with unrecognized extensions", utils.Plural(len(result.Skipped), "file"))
		for _, path := range result.Skipped {
			Logger.Debugf("Skipped %s", path)
		}
	}
	Logger.Debugf("Files written:%s", utils.FormatPaths(result.Written))
	Logger.Infof("%s command completed successfully", verb)

	spin.FinalMSG = ui.SuccessLine(outcome.Message) + "\n" +
		ui.HintLine("Output written to "+ui.Path.Sprint(result.OutputRoot)) + "\n" +
		ui.HintLine("Run details are in "+ui.Path.Sprint(result.SummaryPath))
	return nil
}

// confirmEncrypt asks whether to encrypt input that already looks encrypted.
func confirmEncrypt(job workflows.Job, assumeYes bool) (bool, error) {
	if assumeYes {
		Logger.Infof("Input looks already encrypted, continuing because of --yes")
		return true, nil
	}

	if !stdinIsTerminal() {
		fmt.Println(ui.WarningLine("The files in " + ui.Path.Sprint(job.InputRoot) + " look already encrypted"))
		fmt.Println(ui.FailureLine("Encryption cancelled: no terminal to confirm on"))
		fmt.Println(ui.HintLine("Re-run with " + ui.Flag.Sprint("--yes") + " to encrypt them anyway"))
		return false, nil
	}

	fmt.Fprintln(confirmOutput, ui.WarningLine("The files in "+ui.Path.Sprint(job.InputRoot)+" look already encrypted."))
	fmt.Fprintln(confirmOutput, "  Encrypting them again will make them unreadable by the game.")
	ok, err := utils.Confirm("Encrypt anyway?", confirmInput, confirmOutput)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Println(ui.WarningLine("Encryption cancelled"))
	}
	return ok, nil
}

// formatRunError formats a run error for display to the user. message, when
// set, is the runner's own description of the failure.
func formatRunError(err error, message string) string {
	if message == "" {
		message = err.Error()
	}

	switch {
	case errors.Is(err, kerrors.ErrIdenticalIdentities):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Resigning needs two different SteamIDs")

	case errors.Is(err, kerrors.ErrInvalidIdentity):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("A SteamID is the 17-digit Steam64 number, e.g. "+ui.Highlight.Sprint("76561198000000001"))

	case errors.Is(err, kerrors.ErrUnknownTitle):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint("idresign saves titles")+" to list supported titles")

	case errors.Is(err, kerrors.ErrPathNotFound):
		return ui.FailureLine(err.Error())

	case errors.Is(err, kerrors.ErrNotADirectory):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Pass the folder that contains the save files")

	case errors.Is(err, kerrors.ErrNoSupportedFiles):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Check the input folder and any "+ui.Flag.Sprint("--include")+" patterns")

	case errors.Is(err, kerrors.ErrOutputOverlapsInput):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Choose a different "+ui.Flag.Sprint("--output")+" folder")

	case errors.Is(err, kerrors.ErrAuthenticationFailed):
		return ui.FailureLine(message) + "\n" +
			ui.HintLine("Files before it were written; later files were not processed")

	case errors.Is(err, kerrors.ErrMalformedInput):
		return ui.FailureLine(message) + "\n" +
			ui.HintLine("The file is too short to be an encrypted save. Is it already decrypted?")

	case errors.Is(err, kerrors.ErrSummaryWriteFailure),
		errors.Is(err, kerrors.ErrIOFailure):
		return ui.FailureLine(message) + "\n" +
			ui.ErrorDetail(err)

	default:
		return ui.FailureLine(message)
	}
}

// isUnexpectedRunError returns true if the error is unexpected and should cause a non-zero exit.
func isUnexpectedRunError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrInvalidIdentity),
		errors.Is(err, kerrors.ErrIdenticalIdentities),
		errors.Is(err, kerrors.ErrUnknownTitle),
		errors.Is(err, kerrors.ErrPathNotFound),
		errors.Is(err, kerrors.ErrNotADirectory),
		errors.Is(err, kerrors.ErrNoSupportedFiles),
		errors.Is(err, kerrors.ErrOutputOverlapsInput),
		errors.Is(err, kerrors.ErrAuthenticationFailed),
		errors.Is(err, kerrors.ErrMalformedInput),
		errors.Is(err, kerrors.ErrIOFailure),
		errors.Is(err, kerrors.ErrSummaryWriteFailure):
		return false
	default:
		return true
	}
}
