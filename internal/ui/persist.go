package ui

import (
	"time"

	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/queue"
	"github.com/olivier-w/glassplay/internal/storage"
)

// StoredTracks converts queue tracks to their persisted form.
func StoredTracks(tracks []queue.Track) []storage.Track {
	out := make([]storage.Track, len(tracks))
	for i, t := range tracks {
		out[i] = storage.Track{
			ID:       t.ID,
			Name:     t.Title,
			Artist:   t.Artist,
			Duration: t.Duration.Seconds(),
			URL:      media.FileURL(t.Path),
		}
	}
	return out
}

// QueueTracks converts persisted tracks back to queue tracks. Entries
// whose URL does not name a local file are skipped.
func QueueTracks(stored []storage.Track) []queue.Track {
	out := make([]queue.Track, 0, len(stored))
	for _, s := range stored {
		path, err := media.PathFromURL(s.URL)
		if err != nil || path == "" {
			continue
		}
		id := s.ID
		if id == "" {
			id = queue.NewTrack(s.URL, path, s.Name, s.Artist, 0).ID
		}
		out = append(out, queue.Track{
			ID:       id,
			Title:    s.Name,
			Artist:   s.Artist,
			Path:     path,
			Duration: time.Duration(s.Duration * float64(time.Second)),
		})
	}
	return out
}
