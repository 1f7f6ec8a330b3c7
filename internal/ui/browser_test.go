package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserFileSelectionStoresResult(t *testing.T) {
	dir := tempFiles(t, map[string]string{
		"song.mp3":  "data",
		"notes.txt": "data",
	})

	m := NewBrowser(dir)
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("expected 1 item, got %d", got)
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)

	result := m.Result()
	if result.Cancelled || result.Path != filepath.Join(dir, "song.mp3") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBrowserPlayAllSelectsDirectory(t *testing.T) {
	dir := tempFiles(t, map[string]string{
		"a.mp3":  "data",
		"b.flac": "data",
	})

	m := NewBrowser(dir)
	if _, ok := m.list.Items()[0].(allItem); !ok {
		t.Fatalf("expected play-all item first, got %T", m.list.Items()[0])
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)

	if result := m.Result(); result.Path != dir {
		t.Fatalf("expected directory path, got %+v", result)
	}
}

func TestBrowserListsPlaylists(t *testing.T) {
	dir := tempFiles(t, map[string]string{
		"mix.m3u":  "#EXTM3U\n",
		"road.pls": "[playlist]\n",
	})

	m := NewBrowser(dir)
	for _, name := range []string{"mix.m3u", "road.pls"} {
		found := false
		for _, item := range m.list.Items() {
			file, ok := item.(fileItem)
			if ok && file.playlist && file.name+file.ext == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected browser to include playlist %s", name)
		}
	}
}

func TestBrowserCancel(t *testing.T) {
	m := NewBrowser(tempFiles(t, nil))
	if !m.Empty() {
		t.Fatalf("expected empty browser")
	}

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if result := model.(BrowserModel).Result(); !result.Cancelled {
		t.Fatalf("expected cancelled result, got %+v", result)
	}
}

func TestBrowserMissingDirectory(t *testing.T) {
	m := NewBrowser(filepath.Join(t.TempDir(), "missing"))
	if !m.HasError() {
		t.Fatal("expected error for missing directory")
	}
}

func tempFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
