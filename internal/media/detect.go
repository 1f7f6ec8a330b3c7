package media

import (
	"path/filepath"
	"slices"
	"strings"
)

// Format names a decoder.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
	FormatOgg  Format = "ogg"
	FormatAIFF Format = "aiff"
)

var formatsByExt = map[string]Format{
	".mp3":  FormatMP3,
	".wav":  FormatWAV,
	".flac": FormatFLAC,
	".ogg":  FormatOgg,
	".aif":  FormatAIFF,
	".aiff": FormatAIFF,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// FormatOf returns the decoder for path's extension, or "" when none
// handles it.
func FormatOf(path string) Format {
	return formatsByExt[strings.ToLower(filepath.Ext(path))]
}

// IsSupportedExt reports whether ext (with its dot) is a playable format.
func IsSupportedExt(ext string) bool {
	_, ok := formatsByExt[strings.ToLower(ext)]
	return ok
}

// IsPlaylistExt reports whether ext (with its dot) is a playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

// SupportedExtsList returns the playable extensions for error messages.
func SupportedExtsList() string {
	exts := make([]string, 0, len(formatsByExt))
	for ext := range formatsByExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return strings.Join(exts, ", ")
}
