// Package core is the orchestration layer.  It composes the link
// controller, event sinks and transport into complete operational
// modes and provides a builder that selects the right mode from a
// Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  link  →  event sinks  →  core  →  cmd (CLI)
package core

import "context"

// Mode represents a complete operational mode of botlink (watch, peer
// or dump).  Each mode owns its full lifecycle from socket setup to
// teardown.
type Mode interface {
	Run(ctx context.Context) error
}
