package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"abxkit/internal/results"
	"abxkit/internal/session"
	"abxkit/internal/testsupport"
)

const intakeInput = "Ada\nLovelace\n10/12/1990\nwoman\nn\n"

// answerAll plays A, B and the reference, then answers choice for n trials.
func answerAll(n int, choice string) string {
	return strings.Repeat("a\nb\nr\n"+choice+"\nn\n", n)
}

func TestRunConstantReferenceEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"), testsupport.WithConstantReference(true))

	out, _, err := env.run(t, intakeInput+answerAll(2, "1"), "run")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	requireContains(t, out, "Trial 1/2")
	requireContains(t, out, "Trial 2/2")
	requireContains(t, out, "Correct: ")

	resultFiles := listFiles(t, env.cfg.Paths.ResultsDir, "*_Ada_Lovelace_results.csv")
	infoFiles := listFiles(t, env.cfg.Paths.ResultsDir, "*_Ada_Lovelace_info.csv")
	if len(resultFiles) != 1 || len(infoFiles) != 1 {
		t.Fatalf("expected one results and one info file, got %v %v", resultFiles, infoFiles)
	}
	answers, err := results.ReadResults(filepath.Join(env.cfg.Paths.ResultsDir, resultFiles[0]))
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 result rows, got %d", len(answers))
	}

	played, err := os.ReadFile(env.playedLog)
	if err != nil {
		t.Fatalf("read played log: %v", err)
	}
	if lines := strings.Count(string(played), "\n"); lines != 6 {
		t.Fatalf("expected 6 playbacks, got %d:\n%s", lines, played)
	}

	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ResultsDir, session.LockFileName)); err != nil {
		t.Fatalf("expected lock file to remain on disk: %v", err)
	}
}

func TestRunDryRunPlaysNothing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"), testsupport.WithConstantReference(true))
	resultsDir := filepath.Join(env.baseDir, "elsewhere")

	if _, _, err := env.run(t, intakeInput+answerAll(2, "2"), "run", "--dry-run", "--results", resultsDir); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(env.playedLog); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no playback log, stat err %v", err)
	}
	if got := listFiles(t, resultsDir, "*_results.csv"); len(got) != 1 {
		t.Fatalf("expected results in --results directory, got %v", got)
	}
}

func TestRunFromPreparedTrials(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("a", "b", "c"))
	trialsPath := filepath.Join(env.baseDir, "trials.csv")
	if _, _, err := env.run(t, "", "prepare", "--constant-reference", "--out", trialsPath); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	set, err := results.ReadTrials(trialsPath)
	if err != nil {
		t.Fatalf("read trials: %v", err)
	}

	if _, _, err := env.run(t, intakeInput+answerAll(len(set), "1"), "run", "--dry-run", "--trials", trialsPath); err != nil {
		t.Fatalf("run: %v", err)
	}
	files := listFiles(t, env.cfg.Paths.ResultsDir, "*_results.csv")
	if len(files) != 1 {
		t.Fatalf("expected one results file, got %v", files)
	}
	answers, err := results.ReadResults(filepath.Join(env.cfg.Paths.ResultsDir, files[0]))
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	for i, a := range answers {
		if a.Trial.ID != set[i].ID || a.Trial.Ref != set[i].Ref {
			t.Fatalf("trial %d: got %+v, want %+v", i+1, a.Trial, set[i])
		}
	}

	out, _, err := env.run(t, "", "summarize", "--json", filepath.Join(env.cfg.Paths.ResultsDir, files[0]))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	var summary results.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Trials != len(set) || summary.Correct != set.RefOnA() {
		t.Fatalf("unexpected summary %+v (ref on A %d)", summary, set.RefOnA())
	}
}

func TestRunTrialsAndSoundsAreExclusive(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "", "run", "--trials", "x.csv", "--sounds", env.cfg.Paths.StimuliDir)
	if err == nil {
		t.Fatal("expected mutually exclusive flag error")
	}
}

func TestRunAbortWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"))

	_, _, err := env.run(t, intakeInput+"a\nq\n", "run", "--dry-run")
	if !errors.Is(err, session.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if got := listFiles(t, env.cfg.Paths.ResultsDir, "*.csv"); len(got) != 0 {
		t.Fatalf("expected no result files, got %v", got)
	}
}

func TestRunRefusesLockedResultsDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"))
	if err := os.MkdirAll(env.cfg.Paths.ResultsDir, 0o755); err != nil {
		t.Fatalf("mkdir results: %v", err)
	}
	lock, err := session.AcquireLock(env.cfg.Paths.ResultsDir)
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	t.Cleanup(func() { _ = lock.Release() })

	_, _, err = env.run(t, intakeInput, "run", "--dry-run")
	if !errors.Is(err, session.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunRequiresPlayerBinary(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"))
	env.cfg.Player.Command = "clearly-not-present-player"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := env.run(t, intakeInput, "run")
	if err == nil || !strings.Contains(err.Error(), "missing dependencies") {
		t.Fatalf("expected missing player error, got %v", err)
	}
}
