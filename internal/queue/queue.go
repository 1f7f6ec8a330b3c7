package queue

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Track is a single playlist entry.
type Track struct {
	ID       string
	Title    string
	Artist   string
	Path     string
	Duration time.Duration
}

// NewTrack builds a track whose ID is derived from its URL, so the same
// file keeps its ID across runs.
func NewTrack(url, path, title, artist string, d time.Duration) Track {
	return Track{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String(),
		Title:    title,
		Artist:   artist,
		Path:     path,
		Duration: d,
	}
}

// Queue manages an ordered list of tracks for playlist playback.
// Navigation wraps in both directions. It is only mutated from
// Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks       []Track
	current      int
	shuffleOrder []int // maps shuffle position → original track index
	shufflePos   int   // current position in shuffleOrder
	shuffled     bool
}

// New creates a Queue from the given tracks, positioned on the first one.
func New(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	return q.Track(q.current)
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex sets the current track index directly.
// Also syncs the shuffle position when shuffle mode is active.
func (q *Queue) SetCurrentIndex(i int) bool {
	if i < 0 || i >= len(q.tracks) {
		return false
	}
	q.current = i
	q.syncShufflePosition(i)
	return true
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (q *Queue) Track(i int) *Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}

// Tracks returns a copy of the tracks in playlist order.
func (q *Queue) Tracks() []Track {
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// IndexOf returns the index of the track with the given ID, or -1.
func (q *Queue) IndexOf(id string) int {
	for i := range q.tracks {
		if q.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// PeekNext returns the index Next would move to, or -1 if empty.
func (q *Queue) PeekNext() int {
	n := len(q.tracks)
	if n == 0 {
		return -1
	}
	if q.shuffled {
		return q.shuffleOrder[(q.shufflePos+1)%len(q.shuffleOrder)]
	}
	return (q.current + 1) % n
}

// Next moves to the following track in playback order, wrapping from the
// last track to the first. Returns nil when the queue is empty.
func (q *Queue) Next() *Track {
	n := len(q.tracks)
	if n == 0 {
		return nil
	}
	if q.shuffled {
		q.shufflePos = (q.shufflePos + 1) % len(q.shuffleOrder)
		q.current = q.shuffleOrder[q.shufflePos]
	} else {
		q.current = (q.current + 1) % n
	}
	return &q.tracks[q.current]
}

// Previous moves to the preceding track in playback order, wrapping from
// the first track to the last. Returns nil when the queue is empty.
func (q *Queue) Previous() *Track {
	n := len(q.tracks)
	if n == 0 {
		return nil
	}
	if q.shuffled {
		m := len(q.shuffleOrder)
		q.shufflePos = (q.shufflePos - 1 + m) % m
		q.current = q.shuffleOrder[q.shufflePos]
	} else {
		q.current = (q.current - 1 + n) % n
	}
	return &q.tracks[q.current]
}

// IsLast reports whether the current track is the last one in playback
// order, i.e. whether Next would wrap.
func (q *Queue) IsLast() bool {
	if q.shuffled {
		return q.shufflePos == len(q.shuffleOrder)-1
	}
	return q.current == len(q.tracks)-1
}

// Remove removes the track at the given index. Cannot remove the currently playing track.
// Adjusts the current index if needed. Returns false if the index is invalid or is current.
func (q *Queue) Remove(i int) bool {
	if i < 0 || i >= len(q.tracks) || i == q.current {
		return false
	}
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	if i < q.current {
		q.current--
	}
	if q.shuffled {
		q.rebuildShuffleAfterRemove(i)
	}
	return true
}

// rebuildShuffleAfterRemove rebuilds the shuffle mapping after a track at
// removedIdx has been spliced out.
func (q *Queue) rebuildShuffleAfterRemove(removedIdx int) {
	newOrder := make([]int, 0, len(q.shuffleOrder))
	newPos := 0
	for _, idx := range q.shuffleOrder {
		if idx == removedIdx {
			continue
		}
		adjusted := idx
		if idx > removedIdx {
			adjusted--
		}
		if adjusted == q.current {
			newPos = len(newOrder)
		}
		newOrder = append(newOrder, adjusted)
	}
	q.shuffleOrder = newOrder
	q.shufflePos = newPos
}

// IsShuffled returns whether shuffle mode is active.
func (q *Queue) IsShuffled() bool {
	return q.shuffled
}

// EnableShuffle activates shuffle mode. The current track stays at position 0
// in the shuffle order; all other indices are randomized via Fisher-Yates.
func (q *Queue) EnableShuffle() {
	n := len(q.tracks)
	if n <= 1 {
		return
	}
	q.shuffled = true
	q.shuffleOrder = make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i != q.current {
			q.shuffleOrder = append(q.shuffleOrder, i)
		}
	}
	// Fisher-Yates shuffle
	for i := len(q.shuffleOrder) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		q.shuffleOrder[i], q.shuffleOrder[j] = q.shuffleOrder[j], q.shuffleOrder[i]
	}
	q.shuffleOrder = append([]int{q.current}, q.shuffleOrder...)
	q.shufflePos = 0
}

// DisableShuffle deactivates shuffle mode, keeping the current track.
func (q *Queue) DisableShuffle() {
	q.shuffled = false
	q.shuffleOrder = nil
	q.shufflePos = 0
}

func (q *Queue) syncShufflePosition(originalIdx int) {
	if !q.shuffled {
		return
	}
	for i, idx := range q.shuffleOrder {
		if idx == originalIdx {
			q.shufflePos = i
			return
		}
	}
}
