package playback

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cinefeed/internal/domain"
	"cinefeed/internal/domain/ports"
)

var playableExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
}

const updateBuffer = 8

type ControllerConfig struct {
	// RetainSessions keeps swarm sessions alive after Stop so the same
	// title resumes instantly. Off frees bandwidth and memory instead.
	RetainSessions bool
	// TickInterval overrides the telemetry sampling period.
	TickInterval time.Duration
}

// Controller drives one playback session at a time through the phase
// machine and publishes telemetry samples while it is live. Starting a
// new magnet tears down whatever was playing before.
type Controller struct {
	engine ports.SwarmEngine
	cfg    ControllerConfig
	logger *slog.Logger

	mu      sync.Mutex
	current *session
}

type session struct {
	magnet  string
	phase   domain.PlaybackPhase
	file    domain.MediaFile
	swarm   ports.SwarmSession
	updates chan domain.PlaybackState
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewController(engine ports.SwarmEngine, cfg ControllerConfig, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Controller{engine: engine, cfg: cfg, logger: logger}
}

// Start opens the magnet, locates a playable file and begins emitting
// telemetry on the returned channel. The channel closes on Stop. A
// magnet without a playable media file fails terminally with
// ErrNoPlayableFile.
func (c *Controller) Start(ctx context.Context, magnet string) (<-chan domain.PlaybackState, error) {
	c.mu.Lock()
	if c.current != nil {
		c.stopLocked()
	}
	s := &session{
		magnet:  magnet,
		phase:   domain.PhaseIdle,
		updates: make(chan domain.PlaybackState, updateBuffer),
		done:    make(chan struct{}),
	}
	c.current = s
	c.mu.Unlock()

	fail := func(err error) error {
		c.mu.Lock()
		if c.current == s {
			s.phase = domain.PhaseError
			close(s.done)
			close(s.updates)
			c.current = nil
		}
		c.mu.Unlock()
		return err
	}

	if err := c.transition(s, domain.PhaseInitializing); err != nil {
		return nil, fail(err)
	}

	swarm, reused, err := c.engine.Open(ctx, magnet)
	if err != nil {
		return nil, fail(fmt.Errorf("open swarm: %w", err))
	}
	c.mu.Lock()
	s.swarm = swarm
	c.mu.Unlock()

	// A reused session already holds metadata, so the connecting wait
	// is skipped and the phase machine short-circuits to locating.
	if !reused {
		if err := c.transition(s, domain.PhaseConnecting); err != nil {
			return nil, fail(err)
		}
	}

	files, err := swarm.Files(ctx)
	if err != nil {
		c.dropSwarm(magnet)
		return nil, fail(fmt.Errorf("swarm metadata: %w", err))
	}

	if err := c.transition(s, domain.PhaseLocating); err != nil {
		return nil, fail(err)
	}

	file, ok := locatePlayable(files)
	if !ok {
		c.logger.Warn("no playable file in swarm", slog.String("magnet", magnet), slog.Int("files", len(files)))
		c.dropSwarm(magnet)
		return nil, fail(domain.ErrNoPlayableFile)
	}

	c.mu.Lock()
	s.file = file
	c.mu.Unlock()

	if err := c.transition(s, domain.PhaseBuffering); err != nil {
		return nil, fail(err)
	}

	tickCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.current != s {
		// Replaced by a concurrent Start or Stop; its teardown already
		// closed the channels.
		c.mu.Unlock()
		cancel()
		return nil, domain.ErrNotFound
	}
	s.cancel = cancel
	c.mu.Unlock()
	go c.telemetryLoop(tickCtx, s)

	c.logger.Info("playback started",
		slog.String("magnet", magnet),
		slog.String("file", file.Path),
		slog.Bool("reused", reused),
	)
	return s.updates, nil
}

// MarkPlaying records that the playback surface rendered its first
// frame. Only valid while buffering.
func (c *Controller) MarkPlaying() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.current
	if s == nil {
		return domain.ErrNotFound
	}
	if !domain.CanTransition(s.phase, domain.PhasePlaying) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.phase, domain.PhasePlaying)
	}
	s.phase = domain.PhasePlaying
	return nil
}

// State returns the latest sample for the live session, or an idle
// state when nothing is playing.
func (c *Controller) State() domain.PlaybackState {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return domain.PlaybackState{Phase: domain.PhaseIdle, UpdatedAt: time.Now().UTC()}
	}
	return c.sample(s)
}

// Stop tears down the live session. The telemetry ticker always
// stops; whether the swarm session is dropped follows the retention
// policy.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) Close() error {
	c.Stop()
	return c.engine.Close()
}

// stopLocked tears down c.current. Caller holds c.mu.
func (c *Controller) stopLocked() {
	s := c.current
	if s == nil {
		return
	}
	c.current = nil
	if s.cancel != nil {
		s.cancel()
		// The loop owns the updates channel; wait for it to exit
		// before closing so no send races the close.
		c.mu.Unlock()
		<-s.done
		c.mu.Lock()
	} else {
		close(s.done)
	}
	close(s.updates)

	if !c.cfg.RetainSessions {
		c.dropSwarm(s.magnet)
	}
	c.logger.Info("playback stopped",
		slog.String("magnet", s.magnet),
		slog.Bool("retained", c.cfg.RetainSessions),
	)
}

func (c *Controller) dropSwarm(magnet string) {
	if err := c.engine.Drop(magnet); err != nil {
		c.logger.Warn("swarm drop failed", slog.String("magnet", magnet), slog.String("error", err.Error()))
	}
}

func (c *Controller) transition(s *session, to domain.PlaybackPhase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != s {
		return domain.ErrNotFound
	}
	if !domain.CanTransition(s.phase, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.phase, to)
	}
	s.phase = to
	return nil
}

func (c *Controller) telemetryLoop(ctx context.Context, s *session) {
	defer close(s.done)
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state := c.sample(s)
			// A slow consumer drops samples rather than stalling the
			// loop; the next tick carries fresher numbers anyway.
			select {
			case s.updates <- state:
			default:
			}
		}
	}
}

func (c *Controller) sample(s *session) domain.PlaybackState {
	c.mu.Lock()
	phase := s.phase
	file := s.file.Path
	swarm := s.swarm
	c.mu.Unlock()

	state := domain.PlaybackState{
		Magnet:    s.magnet,
		Phase:     phase,
		File:      file,
		UpdatedAt: time.Now().UTC(),
	}
	if swarm != nil {
		state.Progress = swarm.Progress()
		state.DownloadSpeed = swarm.DownloadSpeed()
		state.Peers = swarm.Peers()
	}
	return state
}

// locatePlayable returns the first file whose extension marks it as
// directly playable media.
func locatePlayable(files []domain.MediaFile) (domain.MediaFile, bool) {
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Path))
		if playableExtensions[ext] {
			return f, true
		}
	}
	return domain.MediaFile{}, false
}
