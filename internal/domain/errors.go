package domain

import "errors"

var ErrNotFound = errors.New("not found")

// ErrValidation marks malformed input to the normalizer. Local to the
// call; never surfaced as a crash.
var ErrValidation = errors.New("invalid item")

// ErrEmptyPayload means an import yielded nothing usable. The import
// aborts whole; there are no partial imports.
var ErrEmptyPayload = errors.New("import payload contains no items")

// ErrInvalidCloudFormat means a cloud document could not be parsed as
// JSON after both the direct fetch and the proxy fallback.
var ErrInvalidCloudFormat = errors.New("cloud payload is not valid JSON")

// ErrNoPlayableFile means a swarm contains no video file. Terminal for
// the playback session; retrying will not change the file list.
var ErrNoPlayableFile = errors.New("no playable file in swarm")
