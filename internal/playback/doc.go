// Package playback plays stimuli through an external audio player.
//
// CommandPlayer renders each stimulus through the configured processing.Func
// into a temporary WAV file, invokes the player binary on it, and removes the
// file afterwards. NopPlayer satisfies the interface for dry runs.
package playback
