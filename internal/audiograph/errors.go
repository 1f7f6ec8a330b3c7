package audiograph

import "errors"

var (
	// ErrUnsupportedEnvironment means the host offers no audio engine at all.
	// It is permanent for the lifetime of the process.
	ErrUnsupportedEnvironment = errors.New("audio engine not supported")

	// ErrResourceCreation wraps failures constructing the engine context or
	// one of its nodes.
	ErrResourceCreation = errors.New("creating audio resources")

	// ErrBindingConflict is returned when a second source would be attached
	// to the graph, or a second source node created for one media handle.
	// Binder never produces it; it guards the graph against misuse.
	ErrBindingConflict = errors.New("audio source binding conflict")

	// ErrResume wraps a rejected or abandoned attempt to resume a suspended
	// engine. Callers may retry on the next user gesture.
	ErrResume = errors.New("resuming audio engine")
)
