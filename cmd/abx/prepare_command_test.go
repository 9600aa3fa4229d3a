package main

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"abxkit/internal/abx"
	"abxkit/internal/results"
	"abxkit/internal/testsupport"
)

type preparedJSON struct {
	Seed   int64        `json:"seed"`
	RefOnA int          `json:"ref_on_a"`
	Trials abx.TrialSet `json:"trials"`
}

func TestPrepareConstantReference(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("ref", "test"), testsupport.WithConstantReference(true))

	out, _, err := env.run(t, "", "prepare")
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	requireContains(t, out, "ref.wav")
	requireContains(t, out, "2 trials")
	requireContains(t, out, "seed 1")
}

func TestPrepareJSONIsReproducible(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("a", "b", "c"))

	decode := func(seed string) preparedJSON {
		t.Helper()
		out, _, err := env.run(t, "", "prepare", "--json", "--seed", seed)
		if err != nil {
			t.Fatalf("prepare: %v", err)
		}
		var payload preparedJSON
		if err := json.Unmarshal([]byte(out), &payload); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		return payload
	}

	first, second := decode("42"), decode("42")
	if first.Seed != 42 || len(first.Trials) != abx.ExpectedCount(3, false) {
		t.Fatalf("unexpected payload: seed %d, %d trials", first.Seed, len(first.Trials))
	}
	for i := range first.Trials {
		if first.Trials[i] != second.Trials[i] {
			t.Fatalf("trial %d differs between runs with the same seed", i+1)
		}
	}
}

func TestPrepareExactBalanceAndOut(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("a", "b", "c"))
	target := filepath.Join(env.baseDir, "trials.csv")

	out, _, err := env.run(t, "", "prepare", "--balance", "exact", "--out", target)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	requireContains(t, out, "Wrote trial set to "+target)

	set, err := results.ReadTrials(target)
	if err != nil {
		t.Fatalf("read trials: %v", err)
	}
	if got, want := set.RefOnA(), len(set)/2; got != want {
		t.Fatalf("reference on A = %d, want %d", got, want)
	}
}

func TestPrepareRejectsSingleStimulus(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("only"))
	_, _, err := env.run(t, "", "prepare")
	if !errors.Is(err, abx.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestPrepareRejectsUnknownBalance(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStimuli("a", "b"))
	if _, _, err := env.run(t, "", "prepare", "--balance", "sometimes"); err == nil {
		t.Fatal("expected balance error")
	}
}

func TestPrepareMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "", "prepare", "--sounds", filepath.Join(env.baseDir, "missing"))
	if !errors.Is(err, abx.ErrFileIO) {
		t.Fatalf("expected ErrFileIO, got %v", err)
	}
}
