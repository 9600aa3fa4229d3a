// Package audio holds decoded sample buffers, WAV encoding and decoding, IIR
// filters, and the level measurements used by processing and the stats
// command.
//
// Samples are float64 in [-1, 1] stored per channel. Only mono and stereo
// files are supported.
package audio
