package abx

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/samber/lo"

	"abxkit/internal/stimuli"
)

// Grouping values for Options.GroupBy.
const (
	GroupByDirectory = "directory"
	GroupByItem      = "item"
)

// Options controls combination generation.
type Options struct {
	// ConstantReference holds the first stimulus of every pair as the
	// reference (CR-ABX). Otherwise each pair appears once per reference.
	ConstantReference bool
	// GroupBy is GroupByDirectory (default) or GroupByItem.
	GroupBy string
	// Anchor keeps only pairs that contain the first stimulus of each group.
	Anchor bool
}

// Generate enumerates the ABX trials for the given stimuli.
//
// Pairs are every two-element combination of a group's sorted paths, numbered
// "00", "01", ... across the whole set. Each (pair, reference) row is emitted
// in both A/B orders, so a group of N stimuli yields 2*C(N,2) trials with a
// constant reference and 4*C(N,2) otherwise. The result is sorted by A, then ID.
func Generate(list []stimuli.Stimulus, opts Options) (TrialSet, error) {
	groupBy := opts.GroupBy
	if groupBy == "" {
		groupBy = GroupByDirectory
	}
	if groupBy != GroupByDirectory && groupBy != GroupByItem {
		return nil, fmt.Errorf("%w: unsupported grouping %q", ErrInput, opts.GroupBy)
	}

	grouped := lo.GroupBy(list, func(s stimuli.Stimulus) string {
		if groupBy == GroupByItem {
			return s.Item
		}
		return filepath.Base(filepath.Dir(s.Path))
	})
	keys := lo.Keys(grouped)
	sort.Strings(keys)

	var set TrialSet
	pairIndex := 0
	for _, key := range keys {
		paths := lo.Uniq(stimuli.Paths(grouped[key]))
		sort.Strings(paths)
		if len(paths) < 2 {
			continue
		}
		firsts := len(paths) - 1
		if opts.Anchor {
			firsts = 1
		}
		for i := 0; i < firsts; i++ {
			for j := i + 1; j < len(paths); j++ {
				set = append(set, pairTrials(pairIndex, key, paths[i], paths[j], opts.ConstantReference)...)
				pairIndex++
			}
		}
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("%w: need at least two comparable stimuli, found %d", ErrInput, len(list))
	}

	sort.SliceStable(set, func(i, j int) bool {
		if set[i].A != set[j].A {
			return set[i].A < set[j].A
		}
		return set[i].Seq < set[j].Seq
	})
	for i := range set {
		set[i].Seq = i + 1
	}
	return set, nil
}

// pairTrials emits the trials of one pair. Seq holds the pair index until
// Generate renumbers the sorted set, so IDs past "99" still order numerically.
func pairTrials(pair int, group, first, second string, constantReference bool) []Trial {
	id := fmt.Sprintf("%02d", pair)
	refs := []string{first}
	if !constantReference {
		refs = append(refs, second)
	}
	trials := make([]Trial, 0, len(refs)*2)
	for _, ref := range refs {
		trials = append(trials,
			Trial{Seq: pair, ID: id, Group: group, A: first, B: second, Ref: ref},
			Trial{Seq: pair, ID: id, Group: group, A: second, B: first, Ref: ref},
		)
	}
	return trials
}

// ExpectedCount returns the number of trials Generate produces for a single
// group of n stimuli without anchoring.
func ExpectedCount(n int, constantReference bool) int {
	if n < 2 {
		return 0
	}
	pairs := n * (n - 1) / 2
	if constantReference {
		return 2 * pairs
	}
	return 4 * pairs
}
