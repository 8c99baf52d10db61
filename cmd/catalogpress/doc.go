// Package main hosts the catalogpress CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the edit lifecycle end to end:
// proposing edits, reviewing them, deploying approved edits to the content
// repository, and inspecting canonical records. It centralizes configuration
// resolution and store access so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
