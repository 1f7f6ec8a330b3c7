package ui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/queue"
	"github.com/olivier-w/glassplay/internal/storage"
)

func TestStoredTracksRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Glass Horizon.flac")
	in := []queue.Track{
		queue.NewTrack(media.FileURL(path), path, "Glass Horizon", "Ethereal Beats", 308*time.Second),
	}

	stored := StoredTracks(in)
	if stored[0].URL != media.FileURL(path) || stored[0].Duration != 308 {
		t.Fatalf("stored = %+v", stored[0])
	}

	out := QueueTracks(stored)
	if len(out) != 1 {
		t.Fatalf("got %d tracks, want 1", len(out))
	}
	if out[0] != in[0] {
		t.Fatalf("round trip = %+v, want %+v", out[0], in[0])
	}
}

func TestQueueTracksSkipsRemoteURLs(t *testing.T) {
	stored := []storage.Track{
		{ID: "1", Name: "Remote", URL: "https://www.soundjay.com/misc/sounds/bell-ringing-05.wav"},
		{Name: "Local", URL: "file:///music/local.mp3"},
	}

	out := QueueTracks(stored)
	if len(out) != 1 || out[0].Title != "Local" {
		t.Fatalf("got %+v, want only the local track", out)
	}
	if out[0].ID == "" {
		t.Fatal("expected an ID derived for a track saved without one")
	}
}
