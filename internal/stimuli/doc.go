// Package stimuli discovers WAV stimuli on disk and parses the condition and
// item labels encoded in their file names.
//
// Names are split on underscores. The batch convolution output layout
// `{prefix}_{condition}_{item}.wav` yields condition and item directly; shorter
// names degrade to a condition-only label.
package stimuli
