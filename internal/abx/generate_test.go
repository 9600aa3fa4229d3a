package abx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"abxkit/internal/stimuli"
)

func makeStimuli(dir string, names ...string) []stimuli.Stimulus {
	out := make([]stimuli.Stimulus, len(names))
	for i, name := range names {
		out[i] = stimuli.New(filepath.Join(dir, name+".wav"))
	}
	return out
}

func TestGenerateCounts(t *testing.T) {
	for n := 2; n <= 6; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("cond%d", i)
		}
		list := makeStimuli("set", names...)
		for _, cr := range []bool{true, false} {
			set, err := Generate(list, Options{ConstantReference: cr})
			if err != nil {
				t.Fatalf("n=%d cr=%v: %v", n, cr, err)
			}
			if want := ExpectedCount(n, cr); len(set) != want {
				t.Fatalf("n=%d cr=%v: got %d trials, want %d", n, cr, len(set), want)
			}
			if err := set.Validate(); err != nil {
				t.Fatalf("n=%d cr=%v: invalid set: %v", n, cr, err)
			}
		}
	}
}

func TestGenerateTwoStimuliConstantReference(t *testing.T) {
	set, err := Generate(makeStimuli("set", "dry", "wet"), Options{ConstantReference: true})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	dry, wet := filepath.Join("set", "dry.wav"), filepath.Join("set", "wet.wav")
	want := TrialSet{
		{Seq: 1, ID: "00", Group: "set", A: dry, B: wet, Ref: dry},
		{Seq: 2, ID: "00", Group: "set", A: wet, B: dry, Ref: dry},
	}
	if len(set) != len(want) {
		t.Fatalf("got %d trials, want %d", len(set), len(want))
	}
	for i := range want {
		if set[i] != want[i] {
			t.Fatalf("trial %d = %+v, want %+v", i, set[i], want[i])
		}
	}
}

func TestGenerateStandardUsesBothReferences(t *testing.T) {
	set, err := Generate(makeStimuli("set", "dry", "wet"), Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	refs := map[string]int{}
	for _, trial := range set {
		refs[trial.Ref]++
	}
	if len(set) != 4 || len(refs) != 2 {
		t.Fatalf("expected 4 trials over 2 references, got %d over %v", len(set), refs)
	}
}

func TestGenerateSortedByAThenID(t *testing.T) {
	set, err := Generate(makeStimuli("set", "a", "b", "c"), Options{})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	for i := 1; i < len(set); i++ {
		prev, cur := set[i-1], set[i]
		if prev.A > cur.A || (prev.A == cur.A && prev.ID > cur.ID) {
			t.Fatalf("trials %d and %d out of order: %+v %+v", i-1, i, prev, cur)
		}
		if cur.Seq != i+1 {
			t.Fatalf("trial %d has seq %d", i, cur.Seq)
		}
	}
}

func TestGenerateOrdersIDsNumericallyPastNinetyNine(t *testing.T) {
	names := make([]string, 16)
	for i := range names {
		names[i] = fmt.Sprintf("s%02d", i)
	}
	set, err := Generate(makeStimuli("set", names...), Options{ConstantReference: true})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(set) != ExpectedCount(16, true) {
		t.Fatalf("expected %d trials, got %d", ExpectedCount(16, true), len(set))
	}
	sawWide := false
	for i := 1; i < len(set); i++ {
		prev, cur := set[i-1], set[i]
		if prev.A != cur.A {
			continue
		}
		p, errP := strconv.Atoi(prev.ID)
		c, errC := strconv.Atoi(cur.ID)
		if errP != nil || errC != nil {
			t.Fatalf("non-numeric ids %q %q", prev.ID, cur.ID)
		}
		if p > c {
			t.Fatalf("trials %d and %d out of order: id %s before %s", i, i+1, prev.ID, cur.ID)
		}
		if c >= 100 {
			sawWide = true
		}
	}
	if !sawWide {
		t.Fatal("expected three-digit pair ids")
	}
}

func TestGenerateGroupByItem(t *testing.T) {
	list := makeStimuli("set",
		"p_hall_speech", "p_room_speech", "p_dry_speech",
		"p_hall_music", "p_room_music",
		"p_hall_noise",
	)
	set, err := Generate(list, Options{ConstantReference: true, GroupBy: GroupByItem})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if want := ExpectedCount(3, true) + ExpectedCount(2, true); len(set) != want {
		t.Fatalf("got %d trials, want %d", len(set), want)
	}
	for _, trial := range set {
		a, b := stimuli.New(trial.A), stimuli.New(trial.B)
		if a.Item != b.Item || a.Item != trial.Group {
			t.Fatalf("trial mixes groups: %+v", trial)
		}
	}
}

func TestGenerateAnchorKeepsFirstStimulus(t *testing.T) {
	list := makeStimuli("set", "a", "b", "c", "d")
	set, err := Generate(list, Options{ConstantReference: true, Anchor: true})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	anchor := filepath.Join("set", "a.wav")
	if len(set) != 6 {
		t.Fatalf("expected 3 anchored pairs in 6 trials, got %d", len(set))
	}
	for _, trial := range set {
		if trial.A != anchor && trial.B != anchor {
			t.Fatalf("trial without anchor: %+v", trial)
		}
		if trial.Ref != anchor {
			t.Fatalf("constant reference should be the anchor: %+v", trial)
		}
	}
}

func TestGenerateRejectsInsufficientInput(t *testing.T) {
	tests := []struct {
		name string
		list []stimuli.Stimulus
		opts Options
	}{
		{name: "empty"},
		{name: "single", list: makeStimuli("set", "only")},
		{name: "no shared item", list: makeStimuli("set", "x_a_one", "x_b_two"), opts: Options{GroupBy: GroupByItem}},
		{name: "duplicate path", list: append(makeStimuli("set", "a"), makeStimuli("set", "a")...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Generate(tt.list, tt.opts)
			if !errors.Is(err, ErrInput) {
				t.Fatalf("expected ErrInput, got %v", err)
			}
			if set != nil {
				t.Fatalf("expected nil set, got %+v", set)
			}
		})
	}
}

func TestGenerateRejectsUnknownGrouping(t *testing.T) {
	if _, err := Generate(makeStimuli("set", "a", "b"), Options{GroupBy: "speaker"}); !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
