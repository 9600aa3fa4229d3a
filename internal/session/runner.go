package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"abxkit/internal/abx"
	"abxkit/internal/logging"
	"abxkit/internal/playback"
)

// ErrAborted reports a session ended by the participant before the last
// trial was answered.
var ErrAborted = errors.New("session aborted")

// Options configures a Runner.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Player playback.Player
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Color enables ANSI headings.
	Color bool
}

// Runner drives intake and the trial loop.
type Runner struct {
	input  *lineReader
	out    io.Writer
	player playback.Player
	logger *slog.Logger
	now    func() time.Time
	color  bool
}

// NewRunner constructs a Runner. A nil player plays nothing.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		input:  newLineReader(opts.In),
		out:    opts.Out,
		player: opts.Player,
		logger: logging.NewComponentLogger(opts.Logger, "session"),
		now:    opts.Now,
		color:  opts.Color,
	}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.player == nil {
		r.player = playback.NopPlayer{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// stage tracks how far a trial has been unlocked.
type stage int

const (
	needA stage = iota
	needB
	needRef
	needChoice
	canConfirm
)

func (s stage) hint() string {
	switch s {
	case needA:
		return "play A first (a)"
	case needB:
		return "play B next (b)"
	case needRef:
		return "play the reference next (r)"
	case needChoice:
		return "choose 1 (A) or 2 (B)"
	default:
		return "press n to continue, or change your choice"
	}
}

// Close releases the input goroutine. The Runner must not be used afterwards.
func (r *Runner) Close() {
	r.input.close()
}

// Run presents every trial in order and returns one result per trial.
func (r *Runner) Run(ctx context.Context, set abx.TrialSet) ([]abx.Result, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("session started", slog.Int("trials", len(set)))

	fmt.Fprintln(r.out, r.heading("Listening test"))
	fmt.Fprintln(r.out, "Keys: a = play A, b = play B, r = play reference,")
	fmt.Fprintln(r.out, "      1 = A matches the reference, 2 = B matches the reference,")
	fmt.Fprintln(r.out, "      n = next trial, q = quit without saving")

	results := make([]abx.Result, 0, len(set))
	for i, trial := range set {
		resp, err := r.runTrial(ctx, i+1, len(set), trial)
		if err != nil {
			logger.Info("session stopped", slog.Int(logging.FieldTrial, i+1), logging.Error(err))
			return nil, err
		}
		logger.Debug("trial answered",
			slog.Int(logging.FieldTrial, i+1),
			slog.String("id", trial.ID),
			slog.Bool("correct", resp.Correct),
			slog.Int("clicks", resp.Clicks),
			slog.Duration("elapsed", resp.Elapsed),
		)
		results = append(results, abx.Result{Trial: trial, Response: resp})
	}
	fmt.Fprintln(r.out, "All trials done. Thank you!")
	logger.Info("session finished", slog.Int("trials", len(results)))
	return results, nil
}

func (r *Runner) runTrial(ctx context.Context, position, total int, trial abx.Trial) (abx.Response, error) {
	fmt.Fprintf(r.out, "\n%s\n", r.heading(fmt.Sprintf("Trial %d/%d", position, total)))

	current := needA
	var (
		choice     abx.Side
		clicks     int
		firstPress time.Time
	)
	play := func(path string) error {
		if firstPress.IsZero() {
			firstPress = r.now()
		}
		clicks++
		if err := r.player.Play(ctx, path); err != nil {
			return fmt.Errorf("trial %d: %w", position, err)
		}
		return nil
	}

	for {
		fmt.Fprint(r.out, "> ")
		line, err := r.input.next(ctx)
		if err != nil {
			return abx.Response{}, inputError(err)
		}

		switch line {
		case "q", "Q":
			return abx.Response{}, fmt.Errorf("%w at trial %d", ErrAborted, position)
		case "a", "A":
			if err := play(trial.A); err != nil {
				return abx.Response{}, err
			}
			if current == needA {
				current = needB
			}
		case "b", "B":
			if current < needB {
				fmt.Fprintln(r.out, current.hint())
				continue
			}
			if err := play(trial.B); err != nil {
				return abx.Response{}, err
			}
			if current == needB {
				current = needRef
			}
		case "r", "R":
			if current < needRef {
				fmt.Fprintln(r.out, current.hint())
				continue
			}
			if err := play(trial.Ref); err != nil {
				return abx.Response{}, err
			}
			if current == needRef {
				current = needChoice
			}
		case "1", "2":
			if current < needChoice {
				fmt.Fprintln(r.out, current.hint())
				continue
			}
			choice = abx.SideA
			if line == "2" {
				choice = abx.SideB
			}
			current = canConfirm
			fmt.Fprintf(r.out, "selected %s\n", choice)
		case "n", "N":
			if current < canConfirm {
				fmt.Fprintln(r.out, current.hint())
				continue
			}
			return abx.NewResponse(trial, choice, clicks, r.now().Sub(firstPress)), nil
		case "":
			continue
		default:
			fmt.Fprintf(r.out, "unknown key %q; %s\n", line, current.hint())
		}
	}
}

func (r *Runner) heading(text string) string {
	if !r.color {
		return text
	}
	return "\x1b[1m" + text + "\x1b[0m"
}
