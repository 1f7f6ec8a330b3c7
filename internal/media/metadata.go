package media

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds song information.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// ReadMetadata reads ID3v2 tags, falling back to the file name.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
			Album:  strings.TrimSpace(tag.Album()),
		}
		if m.Title != "" {
			return m
		}
		return Metadata{Title: baseName(path), Artist: m.Artist, Album: m.Album}
	}
	return Metadata{Title: baseName(path)}
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Probe returns the stream length of path without playing it. Formats
// that do not record their length report 0.
func Probe(path string) (time.Duration, error) {
	src, err := openSource(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	if src.SampleRate() <= 0 {
		return 0, nil
	}
	return time.Duration(src.Frames()) * time.Second / time.Duration(src.SampleRate()), nil
}
