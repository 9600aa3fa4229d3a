// Package abx builds ABX trial sets from discovered stimuli and randomizes
// their presentation.
//
// Generate enumerates every (reference, A, B) comparison inside a comparison
// group. Randomize returns a shuffled copy with the side concealing the
// reference reassigned per trial. Trial sets are plain slices; functions in
// this package never mutate their inputs.
package abx
