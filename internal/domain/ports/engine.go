package ports

import (
	"context"

	"cinefeed/internal/domain"
)

// SwarmEngine owns the process-wide swarm client. Open is idempotent
// per magnet: a second request for a live identifier returns the
// existing session, never a duplicate.
type SwarmEngine interface {
	// Open adds the magnet to the swarm client, or returns the live
	// session when one exists. reused reports which happened.
	Open(ctx context.Context, magnet string) (session SwarmSession, reused bool, err error)
	Get(magnet string) (SwarmSession, bool)
	Drop(magnet string) error
	Close() error
}

// SwarmSession is one peer-to-peer download context keyed by magnet.
type SwarmSession interface {
	Magnet() string
	// Files blocks until swarm metadata is available or ctx is done.
	Files(ctx context.Context) ([]domain.MediaFile, error)
	Progress() float64
	DownloadSpeed() int64
	Peers() int
}
