package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"abxkit/internal/abx"
	"abxkit/internal/audio"
	"abxkit/internal/processing"
	"abxkit/internal/results"
	"abxkit/internal/testsupport"
)

func TestStatsJSONMapsSilenceToNull(t *testing.T) {
	dir := t.TempDir()
	tone := filepath.Join(dir, "tone.wav")
	silent := filepath.Join(dir, "silent.wav")
	testsupport.WriteWAV(t, tone, testsupport.Sine(8000, 440, 0.5, 1, 1))
	testsupport.WriteWAV(t, silent, audio.NewBuffer(8000, 1, 400))

	out, _, err := runCLI(t, "", "stats", "--json", tone, silent)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var payload []fileStats
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, out)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(payload))
	}
	if payload[0].PeakDBFS == nil || *payload[0].PeakDBFS > -5.9 || *payload[0].PeakDBFS < -6.1 {
		t.Fatalf("unexpected tone peak %v", payload[0].PeakDBFS)
	}
	if payload[0].LUFS == nil {
		t.Fatal("expected loudness for a one second tone")
	}
	if payload[1].PeakDBFS != nil || payload[1].LUFS != nil {
		t.Fatalf("expected null levels for silence, got %+v", payload[1])
	}
}

func TestStatsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	testsupport.WriteWAV(t, path, testsupport.Sine(8000, 440, 0.5, 0.1, 2))

	out, _, err := runCLI(t, "", "stats", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	requireContains(t, out, "tone.wav")
	requireContains(t, out, "-inf")
}

func TestStatsMissingFile(t *testing.T) {
	if _, _, err := runCLI(t, "", "stats", filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSummarizeTable(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Paths.ResultsDir, 0o755); err != nil {
		t.Fatalf("mkdir results: %v", err)
	}
	trial := abx.Trial{Seq: 1, ID: "00", Group: "stimuli", A: "/s/ref.wav", B: "/s/test.wav", Ref: "/s/ref.wav"}
	answers := []abx.Result{
		{Trial: trial, Response: abx.NewResponse(trial, abx.SideA, 3, 2*time.Second)},
		{Trial: trial, Response: abx.NewResponse(trial, abx.SideB, 2, time.Second)},
	}
	files, err := results.Save(env.cfg.Paths.ResultsDir, time.Now(), abx.Participant{FirstName: "Ada"}, answers, false)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	out, _, err := env.run(t, "", "summarize", files.Results)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	for _, want := range []string{"Trials", "Correct", "p-value", "0.500", "ref.wav / test.wav"} {
		requireContains(t, out, want)
	}
}

func TestSummarizeRejectsForeignCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "other.csv")
	if err := os.WriteFile(path, []byte("name,value\nx,1\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	_, _, err := env.run(t, "", "summarize", path)
	if !errors.Is(err, abx.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestProcessWritesOneFilePerImpulseResponse(t *testing.T) {
	env := setupCLITestEnv(t)
	irDir := filepath.Join(env.baseDir, "irs")
	if err := os.MkdirAll(irDir, 0o755); err != nil {
		t.Fatalf("mkdir irs: %v", err)
	}
	testsupport.WriteWAV(t, filepath.Join(irDir, "ir_roomA.wav"), testsupport.Impulse(8000, 64, 0, 1))
	testsupport.WriteWAV(t, filepath.Join(irDir, "ir_roomB.wav"), testsupport.Impulse(8000, 64, 10, 0.5))
	stimulus := filepath.Join(env.baseDir, "speech.wav")
	testsupport.WriteWAV(t, stimulus, testsupport.Sine(8000, 300, 0.8, 0.5, 1))
	outDir := filepath.Join(env.baseDir, "rendered")

	out, _, err := env.run(t, "", "process", "--irs", irDir, "--stimulus", stimulus, "--out", outDir, "--prefix", "exp1")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Wrote 2 files")

	written := strings.Join(listFiles(t, outDir, "*.wav"), ",")
	if written != "exp1_roomA_speech.wav,exp1_roomB_speech.wav" {
		t.Fatalf("unexpected outputs %q", written)
	}
	first := testsupport.ReadWAV(t, filepath.Join(outDir, "exp1_roomA_speech.wav"))
	if peak := audio.DB(first.Peak()); peak > processing.DefaultBatchPeakDB+0.1 || peak < processing.DefaultBatchPeakDB-0.1 {
		t.Fatalf("first output peak %.2f dBFS, want %.1f", peak, float64(processing.DefaultBatchPeakDB))
	}
}

func TestProcessRequiresFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "", "process", "--irs", env.baseDir); err == nil {
		t.Fatal("expected missing flag error")
	}
}
