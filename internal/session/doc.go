// Package session runs an interactive ABX listening session on a terminal.
//
// Intake collects participant metadata. The trial loop then enforces a fixed
// unlock order per trial: play A, play B, play the reference, choose which
// side matches the reference, and confirm with next. Unlocked stimuli may be
// replayed; every playback press counts as a click and response time runs
// from the first press to the confirmation.
//
// Input is line oriented so sessions can be scripted in tests. Sending "q"
// or cancelling the context aborts the session without results.
package session
