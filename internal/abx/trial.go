package abx

import (
	"fmt"
	"strings"
)

// Side names one of the two playback buttons.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Trial is one ABX comparison. X, the hidden repeat of the reference, is
// whichever of A and B equals Ref.
type Trial struct {
	Seq   int    `json:"seq"`
	ID    string `json:"id"`
	Group string `json:"group"`
	A     string `json:"a"`
	B     string `json:"b"`
	Ref   string `json:"ref"`
}

// TrialSet is an ordered list of trials in presentation order.
type TrialSet []Trial

// RefSide reports which side conceals the reference.
func (t Trial) RefSide() Side {
	if t.A == t.Ref {
		return SideA
	}
	return SideB
}

// Other returns the stimulus that differs from the reference.
func (t Trial) Other() string {
	if t.A == t.Ref {
		return t.B
	}
	return t.A
}

// StimulusFor returns the path played by the given side.
func (t Trial) StimulusFor(side Side) string {
	if side == SideA {
		return t.A
	}
	return t.B
}

// Validate checks that the trial compares two different stimuli and that the
// reference is one of them.
func (t Trial) Validate() error {
	a, b, ref := strings.TrimSpace(t.A), strings.TrimSpace(t.B), strings.TrimSpace(t.Ref)
	switch {
	case a == "" || b == "" || ref == "":
		return fmt.Errorf("%w: trial %d: a, b and ref are required", ErrInput, t.Seq)
	case a == b:
		return fmt.Errorf("%w: trial %d: a and b are the same stimulus %s", ErrInput, t.Seq, a)
	case ref != a && ref != b:
		return fmt.Errorf("%w: trial %d: ref %s is neither a nor b", ErrInput, t.Seq, ref)
	}
	return nil
}

// Validate checks every trial and rejects an empty set.
func (s TrialSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: trial set is empty", ErrInput)
	}
	for _, t := range s {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares nothing with s.
func (s TrialSet) Clone() TrialSet {
	if s == nil {
		return nil
	}
	out := make(TrialSet, len(s))
	copy(out, s)
	return out
}

// RefOnA counts trials whose reference is concealed in A.
func (s TrialSet) RefOnA() int {
	n := 0
	for _, t := range s {
		if t.RefSide() == SideA {
			n++
		}
	}
	return n
}
