package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"abxkit/internal/audio"
	"abxkit/internal/logging"
	"abxkit/internal/processing"
)

// Player plays one stimulus and returns once playback has finished.
type Player interface {
	Play(ctx context.Context, path string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

// Option configures a CommandPlayer.
type Option func(*CommandPlayer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(p *CommandPlayer) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// WithProcessing renders stimuli through fn before playback. Without it the
// source file is handed to the player as is.
func WithProcessing(fn processing.Func) Option {
	return func(p *CommandPlayer) {
		p.process = fn
	}
}

// WithBitsPerSample sets the bit depth of rendered temp files.
func WithBitsPerSample(bits int) Option {
	return func(p *CommandPlayer) {
		if bits > 0 {
			p.bits = bits
		}
	}
}

// WithTempDir places rendered files in dir instead of the system temp dir.
func WithTempDir(dir string) Option {
	return func(p *CommandPlayer) {
		p.tempDir = dir
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *CommandPlayer) {
		p.logger = logging.NewComponentLogger(logger, "playback")
	}
}

// CommandPlayer shells out to an audio player binary.
type CommandPlayer struct {
	binary  string
	args    []string
	process processing.Func
	bits    int
	tempDir string
	exec    Executor
	logger  *slog.Logger
}

// NewCommandPlayer constructs a player for binary. args precede the file path
// on the command line.
func NewCommandPlayer(binary string, args []string, opts ...Option) (*CommandPlayer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("player command required")
	}
	p := &CommandPlayer{
		binary: binary,
		args:   append([]string(nil), args...),
		bits:   16,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Play renders path (when processing is configured) and runs the player.
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := path
	if p.process != nil {
		rendered, err := p.render(path)
		if err != nil {
			return err
		}
		defer func() {
			if err := os.Remove(rendered); err != nil && !errors.Is(err, os.ErrNotExist) {
				p.logger.Warn("remove rendered stimulus", slog.String("path", rendered), logging.Error(err))
			}
		}()
		target = rendered
	}

	args := append(append([]string(nil), p.args...), target)
	p.logger.Debug("play stimulus", slog.String(logging.FieldStimulus, path), slog.String("command", p.binary))
	if err := p.exec.Run(ctx, p.binary, args); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("play %s: %w", path, err)
	}
	return nil
}

func (p *CommandPlayer) render(path string) (string, error) {
	buf, err := audio.ReadWAV(path)
	if err != nil {
		return "", err
	}
	out, err := p.process(buf)
	if err != nil {
		return "", fmt.Errorf("process %s: %w", path, err)
	}
	f, err := os.CreateTemp(p.tempDir, "abx-*.wav")
	if err != nil {
		return "", fmt.Errorf("create rendered stimulus: %w", err)
	}
	name := f.Name()
	if err := audio.EncodeWAV(f, out, p.bits); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	return name, nil
}

// NopPlayer accepts every request without producing sound.
type NopPlayer struct{}

// Play only honours cancellation.
func (NopPlayer) Play(ctx context.Context, _ string) error {
	return ctx.Err()
}
