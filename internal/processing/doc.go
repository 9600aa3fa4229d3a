// Package processing provides the pluggable transforms applied to stimuli
// before playback: pass-through, gain, peak/RMS/loudness/IR-sum
// normalization, and impulse response convolution.
//
// Every transform is a Func. Funcs compose with Chain and never modify the
// buffer they receive. BatchConvolve renders one stimulus through a directory
// of impulse responses with a shared calibration gain.
package processing
