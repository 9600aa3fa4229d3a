package abx

import (
	"fmt"
	"math"
	"sort"
	"testing"
)

func largeSet(t *testing.T, n int, cr bool) TrialSet {
	t.Helper()
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("s%02d", i)
	}
	set, err := Generate(makeStimuli("set", names...), Options{ConstantReference: cr})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return set
}

type identity struct {
	seq      int
	id, ref  string
	lo, high string
}

func identities(set TrialSet) []identity {
	out := make([]identity, len(set))
	for i, trial := range set {
		lo, high := trial.A, trial.B
		if lo > high {
			lo, high = high, lo
		}
		out[i] = identity{seq: trial.Seq, id: trial.ID, ref: trial.Ref, lo: lo, high: high}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func TestRandomizePreservesTrialIdentity(t *testing.T) {
	set := largeSet(t, 5, false)
	rng, _ := NewRand(7)
	got := Randomize(set, rng, BalanceIndependent)

	before, after := identities(set), identities(got)
	if len(before) != len(after) {
		t.Fatalf("length changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("identity changed at %d: %+v -> %+v", i, before[i], after[i])
		}
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("randomized set invalid: %v", err)
	}
}

func TestRandomizeDoesNotMutateInput(t *testing.T) {
	set := largeSet(t, 4, true)
	snapshot := set.Clone()
	rng, _ := NewRand(11)
	_ = Randomize(set, rng, BalanceExact)
	for i := range set {
		if set[i] != snapshot[i] {
			t.Fatalf("input mutated at %d: %+v -> %+v", i, snapshot[i], set[i])
		}
	}
}

func TestRandomizeSeedReproducible(t *testing.T) {
	set := largeSet(t, 5, false)
	r1, _ := NewRand(42)
	r2, _ := NewRand(42)
	r3, _ := NewRand(43)
	a := Randomize(set, r1, BalanceIndependent)
	b := Randomize(set, r2, BalanceIndependent)
	c := Randomize(set, r3, BalanceIndependent)

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical output")
	}
}

func TestRandomizeIndependentConvergesToHalf(t *testing.T) {
	set := largeSet(t, 30, false)
	rng, _ := NewRand(2024)
	got := Randomize(set, rng, BalanceIndependent)
	share := float64(got.RefOnA()) / float64(len(got))
	if math.Abs(share-0.5) > 0.05 {
		t.Fatalf("reference-on-A share %.3f too far from 0.5 over %d trials", share, len(got))
	}
}

func TestRandomizeExactBalance(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		set := largeSet(t, n, true)
		set = append(set, set[0])
		rng, _ := NewRand(int64(n))
		got := Randomize(set, rng, BalanceExact)
		if want := len(got) / 2; got.RefOnA() != want {
			t.Fatalf("n=%d: got %d trials with reference on A, want %d", n, got.RefOnA(), want)
		}
	}
}

func TestRandomizeEmpty(t *testing.T) {
	got := Randomize(nil, nil, BalanceIndependent)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil set, got %#v", got)
	}
}

func TestNewRandZeroSeedIsReported(t *testing.T) {
	_, seed := NewRand(0)
	if seed == 0 {
		t.Fatal("expected a non-zero replacement seed")
	}
	_, fixed := NewRand(99)
	if fixed != 99 {
		t.Fatalf("expected seed 99 to be kept, got %d", fixed)
	}
}
