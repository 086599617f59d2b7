package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	kerrors "github.com/PolarWolf314/idresign/internal/errors"
	"github.com/PolarWolf314/idresign/internal/saves"
)

// State is the lifecycle state of a Runner.
type State int

const (
	StateIdle State = iota
	StateAwaitingConfirmation
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting confirmation"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the terminal message of a run. Status is StateCompleted or
// StateFailed.
type Outcome struct {
	Status  State
	Message string
	Err     error
	Result  *Result
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress sets the callback invoked before each file. It runs on the
// worker goroutine.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.job.Progress = fn
	}
}

// Runner drives one Job through
// Idle -> (AwaitingConfirmation) -> Running -> Completed | Failed.
//
// The worker posts its Outcome to a one-slot mailbox. Poll reads it without
// blocking; Wait blocks until it arrives.
type Runner struct {
	mu      sync.Mutex
	job     Job
	state   State
	mailbox chan Outcome
	// finished is closed after the worker has posted its outcome.
	finished chan struct{}
	outcome  *Outcome
}

// NewRunner returns an idle runner for job.
func NewRunner(job Job, opts ...Option) *Runner {
	r := &Runner{job: job, state: StateIdle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Job returns the job the runner was built with.
func (r *Runner) Job() Job {
	return r.job
}

// State returns the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start validates the job and launches the worker.
//
// Validation errors are returned before any file is touched and leave the
// runner Idle. In encrypt mode, if the first collected file already looks
// encrypted, the runner moves to AwaitingConfirmation instead and waits
// for Confirm or Cancel.
func (r *Runner) Start(ctx context.Context) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return r.state, fmt.Errorf("%w: start while %s", kerrors.ErrInvalidState, r.state)
	}
	if err := r.job.Validate(); err != nil {
		return r.state, err
	}

	if r.job.Mode == saves.ModeEncrypt && firstFileLooksEncrypted(r.job) {
		r.state = StateAwaitingConfirmation
		return r.state, nil
	}

	r.launch(ctx)
	return r.state, nil
}

// Confirm proceeds with an encrypt run that was held at the gate.
func (r *Runner) Confirm(ctx context.Context) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAwaitingConfirmation {
		return r.state, fmt.Errorf("%w: confirm while %s", kerrors.ErrInvalidState, r.state)
	}
	r.launch(ctx)
	return r.state, nil
}

// Cancel abandons a run held at the gate and returns the runner to Idle.
func (r *Runner) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAwaitingConfirmation {
		return fmt.Errorf("%w: cancel while %s", kerrors.ErrInvalidState, r.state)
	}
	r.state = StateIdle
	return nil
}

// Poll returns the outcome if the worker has finished. Once seen, the
// outcome is returned on every later call.
func (r *Runner) Poll() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.poll()
}

func (r *Runner) poll() (Outcome, bool) {
	if r.outcome != nil {
		return *r.outcome, true
	}
	if r.mailbox == nil {
		return Outcome{}, false
	}
	select {
	case o := <-r.mailbox:
		r.outcome = &o
		r.state = o.Status
		return o, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the worker finishes or ctx is done. ctx only bounds the
// wait; it never stops the worker. A runner held at the confirmation gate
// returns ErrConfirmationRequired.
func (r *Runner) Wait(ctx context.Context) (Outcome, error) {
	r.mu.Lock()
	if o, ok := r.poll(); ok {
		r.mu.Unlock()
		return o, nil
	}
	switch r.state {
	case StateRunning:
	case StateAwaitingConfirmation:
		r.mu.Unlock()
		return Outcome{}, kerrors.ErrConfirmationRequired
	default:
		state := r.state
		r.mu.Unlock()
		return Outcome{}, fmt.Errorf("%w: wait while %s", kerrors.ErrInvalidState, state)
	}
	finished := r.finished
	r.mu.Unlock()

	select {
	case <-finished:
		o, _ := r.Poll()
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// launch spawns the worker. The caller holds r.mu.
func (r *Runner) launch(ctx context.Context) {
	r.state = StateRunning
	r.mailbox = make(chan Outcome, 1)
	r.finished = make(chan struct{})

	job := r.job
	mailbox, finished := r.mailbox, r.finished
	workerCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(finished)
		result, err := Process(workerCtx, job)
		mailbox <- newOutcome(job, result, err)
	}()
}

func newOutcome(job Job, result *Result, err error) Outcome {
	if err != nil {
		return Outcome{
			Status:  StateFailed,
			Message: FailureMessage(job, err),
			Err:     err,
			Result:  result,
		}
	}
	return Outcome{
		Status:  StateCompleted,
		Message: result.Message,
		Result:  result,
	}
}

// FailureMessage describes err for the user. Authentication failures name
// the file and point at the likely cause.
func FailureMessage(job Job, err error) string {
	var fileErr *kerrors.FileError
	if errors.As(err, &fileErr) && errors.Is(err, kerrors.ErrAuthenticationFailed) {
		who := "SteamID"
		if job.Mode == saves.ModeResign {
			who = "old SteamID"
		}
		return fmt.Sprintf("Failed to %s %s: authentication failed. Check that the %s and title are correct", job.Mode, fileErr.File, who)
	}
	return fmt.Sprintf("Error during %s: %v", job.Mode, err)
}

// firstFileLooksEncrypted reports whether the first file the job would
// process already looks like ciphertext. Errors are left for the worker to
// report.
func firstFileLooksEncrypted(job Job) bool {
	collected, err := saves.Collect(job.InputRoot, job.Include)
	if err != nil || len(collected.Files) == 0 {
		return false
	}
	data, err := readPrefix(collected.Files[0], saves.HeuristicWindow)
	if err != nil {
		return false
	}
	return saves.LooksEncrypted(data)
}

func readPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
