package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Entry is one playlist item. Title and Duration are zero when the
// playlist does not carry them.
type Entry struct {
	Path     string
	Title    string
	Duration time.Duration
}

// ParsePlaylist parses a local .m3u/.m3u8/.pls file. Relative entries are
// resolved against the playlist file directory.
func ParsePlaylist(path string) ([]Entry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	absPlaylistPath, err := filepath.Abs(path)
	if err != nil {
		absPlaylistPath = path
	}

	data, err := os.ReadFile(absPlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	baseDir := filepath.Dir(absPlaylistPath)
	scanner := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(string(data), "\uFEFF")))

	switch ext {
	case ".pls":
		return parsePLS(scanner, baseDir), nil
	default:
		return parseM3U(scanner, baseDir), nil
	}
}

// FilterPlayable keeps only existing, non-directory, supported media files.
func FilterPlayable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil || info.IsDir() {
			continue
		}
		if !IsSupportedExt(filepath.Ext(e.Path)) {
			continue
		}
		if abs, err := filepath.Abs(e.Path); err == nil {
			e.Path = abs
		}
		out = append(out, e)
	}
	return out
}

func parseM3U(scanner *bufio.Scanner, baseDir string) []Entry {
	entries := make([]Entry, 0)
	var pending Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if info, ok := strings.CutPrefix(line, "#EXTINF:"); ok {
			pending = parseEXTINF(info)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		pending.Path = resolvePlaylistEntryPath(line, baseDir)
		entries = append(entries, pending)
		pending = Entry{}
	}
	return entries
}

// parseEXTINF reads "<seconds>,<title>". Negative seconds mean unknown.
func parseEXTINF(info string) Entry {
	var e Entry
	secs, title, _ := strings.Cut(info, ",")
	// Attributes may follow the length: "123 tvg-id=..."
	if f := strings.Fields(secs); len(f) > 0 {
		if n, err := strconv.ParseFloat(f[0], 64); err == nil && n > 0 {
			e.Duration = time.Duration(n * float64(time.Second))
		}
	}
	e.Title = strings.TrimSpace(title)
	return e
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []Entry {
	byIndex := make(map[int]*Entry)
	order := make([]int, 0)
	get := func(i int) *Entry {
		if e, ok := byIndex[i]; ok {
			return e
		}
		e := &Entry{}
		byIndex[i] = e
		order = append(order, i)
		return e
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "" {
			continue
		}

		switch field, idx, ok := plsKey(key); {
		case !ok:
		case field == "file":
			get(idx).Path = resolvePlaylistEntryPath(val, baseDir)
		case field == "title":
			get(idx).Title = val
		case field == "length":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				get(idx).Duration = time.Duration(n) * time.Second
			}
		}
	}

	entries := make([]Entry, 0, len(order))
	for _, i := range order {
		if e := byIndex[i]; e.Path != "" {
			entries = append(entries, *e)
		}
	}
	return entries
}

// plsKey splits "File3" into ("file", 3). Keys are case-insensitive.
func plsKey(key string) (string, int, bool) {
	key = strings.ToLower(key)
	for _, field := range []string{"file", "title", "length"} {
		rest, ok := strings.CutPrefix(key, field)
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 || strings.ContainsAny(rest, "+-") {
			return "", 0, false
		}
		return field, n, true
	}
	return "", 0, false
}

func resolvePlaylistEntryPath(raw, baseDir string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
