package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/anacrolix/torrent"

	"cinefeed/internal/domain"
	"cinefeed/internal/domain/ports"
)

// addMagnetTimeout caps the time we wait for the anacrolix client to
// accept a magnet link. AddMagnet can block on an internal client
// mutex while the client is busy resolving metadata elsewhere.
const addMagnetTimeout = 10 * time.Second

var ErrEngineClosed = errors.New("swarm engine closed")

type EngineConfig struct {
	DataDir string
}

// Engine implements ports.SwarmEngine on an anacrolix client. The
// client is expensive to construct and binds listening sockets, so it
// is built lazily on the first Open and shared for the process
// lifetime.
type Engine struct {
	cfg      EngineConfig
	initOnce sync.Once
	initErr  error
	client   *torrent.Client

	mu       sync.RWMutex
	sessions map[string]*swarmSession
	closed   bool
}

func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		cfg:      cfg,
		sessions: make(map[string]*swarmSession),
	}
}

func (e *Engine) ensureClient() error {
	e.initOnce.Do(func() {
		clientConfig := torrent.NewDefaultClientConfig()
		if e.cfg.DataDir != "" {
			clientConfig.DataDir = e.cfg.DataDir
		}
		client, err := torrent.NewClient(clientConfig)
		if err != nil {
			e.initErr = err
			return
		}
		e.client = client
	})
	return e.initErr
}

// Open adds the magnet to the swarm client or hands back the live
// session for it. The same magnet never produces two sessions.
func (e *Engine) Open(ctx context.Context, magnet string) (ports.SwarmSession, bool, error) {
	if magnet == "" {
		return nil, false, errors.New("empty magnet")
	}
	if err := e.ensureClient(); err != nil {
		return nil, false, err
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return nil, false, ErrEngineClosed
	}
	if s, ok := e.sessions[magnet]; ok {
		e.mu.RUnlock()
		return s, true, nil
	}
	e.mu.RUnlock()

	// Run AddMagnet off the calling goroutine so a busy client never
	// blocks the caller past the timeout.
	type addResult struct {
		t   *torrent.Torrent
		err error
	}
	ch := make(chan addResult, 1)
	go func() {
		t, err := e.client.AddMagnet(magnet)
		ch <- addResult{t, err}
	}()

	var t *torrent.Torrent
	select {
	case res := <-ch:
		if res.err != nil {
			return nil, false, res.err
		}
		t = res.t
	case <-time.After(addMagnetTimeout):
		go func() {
			if res := <-ch; res.t != nil {
				res.t.Drop()
			}
		}()
		return nil, false, errors.New("swarm client busy, try again later")
	case <-ctx.Done():
		go func() {
			if res := <-ch; res.t != nil {
				res.t.Drop()
			}
		}()
		return nil, false, ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		t.Drop()
		return nil, false, ErrEngineClosed
	}
	// Lost a race against a concurrent Open for the same magnet.
	// AddMagnet returned the same underlying torrent, so nothing to
	// drop.
	if s, ok := e.sessions[magnet]; ok {
		return s, true, nil
	}
	s := &swarmSession{magnet: magnet, torrent: t}
	e.sessions[magnet] = s
	return s, false, nil
}

func (e *Engine) Get(magnet string) (ports.SwarmSession, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[magnet]
	if !ok {
		return nil, false
	}
	return s, true
}

// SessionCount reports how many swarm sessions are live.
func (e *Engine) SessionCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

func (e *Engine) Drop(magnet string) error {
	e.mu.Lock()
	s, ok := e.sessions[magnet]
	if ok {
		delete(e.sessions, magnet)
	}
	e.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	s.torrent.Drop()
	return nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.sessions = make(map[string]*swarmSession)
	e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	errList := e.client.Close()
	if len(errList) > 0 {
		return errList[0]
	}
	return nil
}

// swarmSession wraps one anacrolix torrent behind the port interface.
type swarmSession struct {
	magnet  string
	torrent *torrent.Torrent

	speedMu sync.Mutex
	speed   speedSample
}

type speedSample struct {
	at        time.Time
	bytesRead int64
}

func (s *swarmSession) Magnet() string { return s.magnet }

func (s *swarmSession) Files(ctx context.Context) ([]domain.MediaFile, error) {
	select {
	case <-s.torrent.GotInfo():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	files := s.torrent.Files()
	mapped := make([]domain.MediaFile, 0, len(files))
	for i, f := range files {
		mapped = append(mapped, domain.MediaFile{
			Index:  i,
			Path:   f.Path(),
			Length: f.Length(),
		})
	}
	return mapped, nil
}

func (s *swarmSession) Progress() float64 {
	if !infoReady(s.torrent) {
		return 0
	}
	length := s.torrent.Length()
	if length <= 0 {
		return 0
	}
	return float64(s.torrent.BytesCompleted()) / float64(length)
}

// DownloadSpeed derives bytes/sec from the delta between consecutive
// calls. The first call of a session reports 0.
func (s *swarmSession) DownloadSpeed() int64 {
	stats := s.torrent.Stats()
	sample := speedSample{at: time.Now().UTC(), bytesRead: stats.BytesReadUsefulData.Int64()}

	s.speedMu.Lock()
	defer s.speedMu.Unlock()

	prev := s.speed
	s.speed = sample
	return speedBetween(prev, sample)
}

func speedBetween(prev, current speedSample) int64 {
	if prev.at.IsZero() {
		return 0
	}
	dt := current.at.Sub(prev.at).Seconds()
	if dt <= 0 {
		return 0
	}
	delta := current.bytesRead - prev.bytesRead
	if delta < 0 {
		delta = 0
	}
	return int64(float64(delta) / dt)
}

func (s *swarmSession) Peers() int {
	return s.torrent.Stats().ActivePeers
}

func infoReady(t *torrent.Torrent) bool {
	select {
	case <-t.GotInfo():
		return true
	default:
		return false
	}
}
