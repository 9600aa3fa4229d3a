package playback

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"abxkit/internal/audio"
	"abxkit/internal/processing"
	"abxkit/internal/testsupport"
)

type recordingExecutor struct {
	binary   string
	args     []string
	peak     float64
	existed  bool
	fail     error
	observed int
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string) error {
	r.observed++
	r.binary = binary
	r.args = append([]string(nil), args...)
	target := args[len(args)-1]
	if buf, err := audio.ReadWAV(target); err == nil {
		r.existed = true
		r.peak = buf.Peak()
	}
	return r.fail
}

func TestCommandPlayerRendersAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tone.wav")
	testsupport.WriteWAV(t, src, testsupport.Sine(8000, 440, 0.5, 0.1, 1))
	tempDir := filepath.Join(dir, "tmp")
	if err := os.Mkdir(tempDir, 0o755); err != nil {
		t.Fatal(err)
	}

	exec := &recordingExecutor{}
	player, err := NewCommandPlayer("aplay", []string{"-q"},
		WithExecutor(exec),
		WithProcessing(processing.Peak(-6)),
		WithTempDir(tempDir),
	)
	if err != nil {
		t.Fatalf("NewCommandPlayer: %v", err)
	}
	if err := player.Play(context.Background(), src); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if exec.binary != "aplay" || len(exec.args) != 2 || exec.args[0] != "-q" {
		t.Fatalf("unexpected invocation %s %v", exec.binary, exec.args)
	}
	if exec.args[1] == src {
		t.Fatal("expected a rendered temp file, got the source path")
	}
	if !exec.existed || audio.DB(exec.peak) > -5.9 || audio.DB(exec.peak) < -6.1 {
		t.Fatalf("rendered file missing or wrong level: existed=%v peak=%.2f dB", exec.existed, audio.DB(exec.peak))
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp dir to be empty, found %d entries", len(entries))
	}
}

func TestCommandPlayerPassesSourceWithoutProcessing(t *testing.T) {
	exec := &recordingExecutor{}
	player, err := NewCommandPlayer("afplay", nil, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewCommandPlayer: %v", err)
	}
	if err := player.Play(context.Background(), "/stimuli/a.wav"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(exec.args) != 1 || exec.args[0] != "/stimuli/a.wav" {
		t.Fatalf("unexpected args %v", exec.args)
	}
}

func TestCommandPlayerReportsFailures(t *testing.T) {
	exec := &recordingExecutor{fail: errors.New("device busy")}
	player, err := NewCommandPlayer("aplay", nil, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewCommandPlayer: %v", err)
	}
	if err := player.Play(context.Background(), "a.wav"); err == nil {
		t.Fatal("expected playback error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := player.Play(ctx, "a.wav"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exec.observed != 1 {
		t.Fatalf("cancelled play should not run the player, ran %d times", exec.observed)
	}
}

func TestNewCommandPlayerRequiresBinary(t *testing.T) {
	if _, err := NewCommandPlayer("  ", nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestCommandExecutorRunsBinary(t *testing.T) {
	script := filepath.Join(t.TempDir(), "player")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	player, err := NewCommandPlayer(script, nil)
	if err != nil {
		t.Fatalf("NewCommandPlayer: %v", err)
	}
	if err := player.Play(context.Background(), "ignored.wav"); err != nil {
		t.Fatalf("Play: %v", err)
	}
}

func TestNopPlayer(t *testing.T) {
	if err := (NopPlayer{}).Play(context.Background(), "x.wav"); err != nil {
		t.Fatalf("NopPlayer: %v", err)
	}
}
