package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/queue"
)

// resolveTracks turns command-line arguments into queue tracks. Each
// argument may be an audio file, a playlist or a directory.
func resolveTracks(args []string) ([]queue.Track, error) {
	var tracks []queue.Track
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		ext := strings.ToLower(filepath.Ext(arg))
		switch {
		case info.IsDir():
			for _, f := range scanMediaFiles(arg) {
				tracks = append(tracks, fileTrack(f, "", 0))
			}
		case media.IsPlaylistExt(ext):
			entries, err := media.ParsePlaylist(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			for _, e := range media.FilterPlayable(entries) {
				tracks = append(tracks, fileTrack(e.Path, e.Title, e.Duration))
			}
		case media.IsSupportedExt(ext):
			tracks = append(tracks, fileTrack(arg, "", 0))
		default:
			return nil, fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
		}
	}
	return tracks, nil
}

// fileTrack builds a track for path. Tags win over playlist titles, and
// the stream length is probed when the playlist did not record one.
func fileTrack(path, title string, d time.Duration) queue.Track {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	meta := media.ReadMetadata(path)
	if title == "" || meta.Title != baseName(path) {
		title = meta.Title
	}
	if d <= 0 {
		if probed, err := media.Probe(path); err == nil {
			d = probed
		}
	}
	return queue.NewTrack(media.FileURL(path), path, title, meta.Artist, d)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// scanMediaFiles returns all supported media files in dir, sorted
// alphabetically (case-insensitive).
func scanMediaFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if media.IsSupportedExt(ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files
}
