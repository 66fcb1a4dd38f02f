package domain

import "errors"

// PlaybackPhase is the runtime state of one playback session. It moves
// forward through the happy path and can drop to PhaseError from any
// phase. PhaseBuffering to PhasePlaying is driven by the playback
// surface reporting first frame, not by the engine.
type PlaybackPhase string

const (
	PhaseIdle         PlaybackPhase = "idle"         // No session yet.
	PhaseInitializing PlaybackPhase = "initializing" // Swarm client being constructed.
	PhaseConnecting   PlaybackPhase = "connecting"   // Waiting for swarm metadata.
	PhaseLocating     PlaybackPhase = "locating"     // Searching the file list for playable media.
	PhaseBuffering    PlaybackPhase = "buffering"    // Media file found, download under way.
	PhasePlaying      PlaybackPhase = "playing"      // Playback surface reported first frame.
	PhaseError        PlaybackPhase = "error"        // Terminal failure.
)

var ErrInvalidTransition = errors.New("invalid phase transition")

// validTransitions is the adjacency list of allowed phase changes.
// PhaseError is reachable from every phase and is handled separately.
var validTransitions = map[PlaybackPhase][]PlaybackPhase{
	PhaseIdle:         {PhaseInitializing},
	PhaseInitializing: {PhaseConnecting, PhaseLocating},
	PhaseConnecting:   {PhaseLocating},
	PhaseLocating:     {PhaseBuffering},
	PhaseBuffering:    {PhasePlaying},
	PhasePlaying:      {},
	PhaseError:        {},
}

// CanTransition reports whether a phase change is allowed.
// Initializing may skip Connecting when the magnet already has a live
// session (idempotent re-entry goes straight to Locating).
func CanTransition(from, to PlaybackPhase) bool {
	if to == PhaseError {
		return from != PhaseError
	}
	for _, t := range validTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
