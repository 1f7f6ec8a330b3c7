package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

const (
	PlaylistKey    = "glassmorphism-player-playlist"
	PlayerStateKey = "glassmorphism-player-state"

	// DefaultVolume applies when a saved state has no volume.
	DefaultVolume = 0.8
)

// Track is a persisted playlist entry. Duration is in seconds; zero means
// unknown.
type Track struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Artist   string  `json:"artist,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	URL      string  `json:"url"`
}

// PlayerState is the persisted playback position. IsPlaying is always
// false once loaded.
type PlayerState struct {
	CurrentTrackID string
	CurrentTime    float64
	Volume         float64
	IsPlaying      bool
}

type playlistRecord struct {
	Tracks    []trackRecord `json:"tracks"`
	Timestamp int64         `json:"timestamp"`
}

type trackRecord struct {
	Track
	// File objects are never stored; the field is kept null for readers
	// that expect it.
	File *struct{} `json:"file"`
}

type playerStateRecord struct {
	CurrentTrackID *string  `json:"currentTrackId"`
	CurrentTime    *float64 `json:"currentTime"`
	Volume         *float64 `json:"volume"`
	IsPlaying      bool     `json:"isPlaying"`
	Timestamp      int64    `json:"timestamp"`
}

// Library reads and writes the player's records. Failures are logged and
// reported as false or empty results; they are never fatal.
type Library struct {
	store Store
	log   *slog.Logger
	now   func() int64
}

// NewLibrary returns a Library over store.
func NewLibrary(store Store, opts ...Option) *Library {
	lib := &Library{
		store: store,
		log:   slog.New(slog.DiscardHandler),
		now:   func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(lib)
	}
	return lib
}

// SavePlaylist replaces the stored playlist.
func (l *Library) SavePlaylist(tracks []Track) bool {
	rec := playlistRecord{Tracks: make([]trackRecord, len(tracks)), Timestamp: l.now()}
	for i, t := range tracks {
		rec.Tracks[i] = trackRecord{Track: t}
	}
	return l.put(PlaylistKey, rec, "playlist")
}

// LoadPlaylist returns the stored tracks, or an empty slice when nothing
// usable is stored.
func (l *Library) LoadPlaylist() []Track {
	var rec playlistRecord
	if !l.get(PlaylistKey, &rec, "playlist") {
		return []Track{}
	}
	out := make([]Track, 0, len(rec.Tracks))
	for _, t := range rec.Tracks {
		out = append(out, t.Track)
	}
	return out
}

// ClearPlaylist removes the stored playlist.
func (l *Library) ClearPlaylist() bool {
	return l.del(PlaylistKey, "playlist")
}

// SavePlayerState stores s with IsPlaying forced to false.
func (l *Library) SavePlayerState(s PlayerState) bool {
	rec := playerStateRecord{
		CurrentTime: &s.CurrentTime,
		Volume:      &s.Volume,
		IsPlaying:   false,
		Timestamp:   l.now(),
	}
	if s.CurrentTrackID != "" {
		rec.CurrentTrackID = &s.CurrentTrackID
	}
	return l.put(PlayerStateKey, rec, "player state")
}

// LoadPlayerState returns the stored state, or nil when nothing usable is
// stored. A missing volume reads as DefaultVolume; a stored zero stays
// zero.
func (l *Library) LoadPlayerState() *PlayerState {
	var rec playerStateRecord
	if !l.get(PlayerStateKey, &rec, "player state") {
		return nil
	}
	s := &PlayerState{Volume: DefaultVolume}
	if rec.CurrentTrackID != nil {
		s.CurrentTrackID = *rec.CurrentTrackID
	}
	if rec.CurrentTime != nil && *rec.CurrentTime > 0 {
		s.CurrentTime = *rec.CurrentTime
	}
	if rec.Volume != nil {
		s.Volume = min(max(*rec.Volume, 0), 1)
	}
	return s
}

// ClearPlayerState removes the stored player state.
func (l *Library) ClearPlayerState() bool {
	return l.del(PlayerStateKey, "player state")
}

func (l *Library) put(key string, v any, what string) bool {
	data, err := json.Marshal(v)
	if err != nil {
		l.log.Error("failed to encode "+what, "err", err)
		return false
	}
	if err := l.store.Set(key, data); err != nil {
		l.log.Error("failed to save "+what, "key", key, "err", err)
		return false
	}
	return true
}

func (l *Library) get(key string, v any, what string) bool {
	data, err := l.store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		l.log.Error("failed to read "+what, "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		l.log.Warn("discarding malformed "+what, "key", key, "err", err)
		return false
	}
	return true
}

func (l *Library) del(key, what string) bool {
	if err := l.store.Delete(key); err != nil {
		l.log.Error("failed to clear "+what, "key", key, "err", err)
		return false
	}
	return true
}
