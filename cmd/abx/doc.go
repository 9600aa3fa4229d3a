// Package main hosts the abx CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into trial-set
// preparation, interactive listening sessions, result summaries, batch
// convolution, level measurement, and configuration scaffolding. It resolves
// configuration and logging once per invocation so subcommands only wire
// flags to the internal packages.
//
// Keep this package thin: new behavior belongs in internal/ first and is
// surfaced here through a command or flag.
package main
