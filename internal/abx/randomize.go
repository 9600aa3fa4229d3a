package abx

import (
	"math/rand/v2"
	"time"
)

// Balance selects how the reference side is assigned during randomization.
type Balance string

const (
	// BalanceIndependent flips a fair coin per trial.
	BalanceIndependent Balance = "independent"
	// BalanceExact conceals the reference in A for exactly floor(n/2) trials.
	BalanceExact Balance = "exact"
)

// NewRand returns a PCG-backed generator for seed. A zero seed is replaced by
// a time-based one; the seed actually used is returned so runs can be replayed.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1^0x9e3779b97f4a7c15)), seed
}

// Randomize returns a shuffled copy of set with the reference side reassigned
// per trial. The input is not modified. Seq, ID, Group, Ref and the unordered
// {A, B} pair of every trial are preserved.
func Randomize(set TrialSet, rng *rand.Rand, balance Balance) TrialSet {
	out := set.Clone()
	if len(out) == 0 {
		return TrialSet{}
	}
	if rng == nil {
		rng, _ = NewRand(0)
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	refOnA := make([]bool, len(out))
	switch balance {
	case BalanceExact:
		for i := 0; i < len(out)/2; i++ {
			refOnA[i] = true
		}
		rng.Shuffle(len(refOnA), func(i, j int) { refOnA[i], refOnA[j] = refOnA[j], refOnA[i] })
	default:
		for i := range refOnA {
			refOnA[i] = rng.IntN(2) == 0
		}
	}

	for i := range out {
		out[i] = placeReference(out[i], refOnA[i])
	}
	return out
}

func placeReference(t Trial, onA bool) Trial {
	other := t.Other()
	if onA {
		t.A, t.B = t.Ref, other
	} else {
		t.A, t.B = other, t.Ref
	}
	return t
}
