package apihttp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"cinefeed/internal/domain"
)

type fakePlayback struct {
	startMagnet string
	startErr    error
	updates     chan domain.PlaybackState
	state       domain.PlaybackState
	markErr     error
	stopped     int
}

func (f *fakePlayback) Start(ctx context.Context, magnet string) (<-chan domain.PlaybackState, error) {
	f.startMagnet = magnet
	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.updates == nil {
		f.updates = make(chan domain.PlaybackState)
		close(f.updates)
	}
	return f.updates, nil
}

func (f *fakePlayback) MarkPlaying() error         { return f.markErr }
func (f *fakePlayback) State() domain.PlaybackState { return f.state }
func (f *fakePlayback) Stop()                      { f.stopped++ }

func TestPlaybackStart(t *testing.T) {
	pb := &fakePlayback{state: domain.PlaybackState{Phase: domain.PhaseBuffering, File: "movie.mkv"}}
	s := NewServer(newFakeCatalog(), WithPlayback(pb))
	defer s.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/playback/start", startPlaybackRequest{
		Magnet: "magnet:?xt=urn:btih:abc",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	if pb.startMagnet != "magnet:?xt=urn:btih:abc" {
		t.Errorf("magnet = %q", pb.startMagnet)
	}
	var state domain.PlaybackState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Phase != domain.PhaseBuffering {
		t.Errorf("phase = %s", state.Phase)
	}
}

func TestPlaybackStartRejectsNonMagnet(t *testing.T) {
	pb := &fakePlayback{}
	s := NewServer(newFakeCatalog(), WithPlayback(pb))
	defer s.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/playback/start", startPlaybackRequest{
		Magnet: "https://cdn.example/a.mp4",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if pb.startMagnet != "" {
		t.Errorf("controller should not be called, got %q", pb.startMagnet)
	}
}

func TestPlaybackStartNoPlayableFile(t *testing.T) {
	pb := &fakePlayback{startErr: domain.ErrNoPlayableFile}
	s := NewServer(newFakeCatalog(), WithPlayback(pb))
	defer s.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/playback/start", startPlaybackRequest{
		Magnet: "magnet:?xt=urn:btih:abc",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPlaybackPlayingInvalidTransition(t *testing.T) {
	pb := &fakePlayback{markErr: domain.ErrInvalidTransition}
	s := NewServer(newFakeCatalog(), WithPlayback(pb))
	defer s.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/playback/playing", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPlaybackStop(t *testing.T) {
	pb := &fakePlayback{}
	s := NewServer(newFakeCatalog(), WithPlayback(pb))
	defer s.Close()

	rec := doRequest(t, s, http.MethodPost, "/api/playback/stop", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if pb.stopped != 1 {
		t.Errorf("stopped = %d", pb.stopped)
	}
}

func TestPlaybackNotConfigured(t *testing.T) {
	s := NewServer(newFakeCatalog())
	defer s.Close()

	rec := doRequest(t, s, http.MethodGet, "/api/playback/state", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}
