package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/glassplay/internal/media"
)

// BrowserResult holds the outcome of the file browser. Path is a file,
// a playlist or the scanned directory itself.
type BrowserResult struct {
	Path      string
	Cancelled bool
}

type fileItem struct {
	name     string
	ext      string
	playlist bool
}

func (i fileItem) Title() string { return i.name }
func (i fileItem) Description() string {
	if i.playlist {
		return i.ext + " playlist"
	}
	return i.ext
}
func (i fileItem) FilterValue() string { return i.name }

type allItem struct {
	count int
}

func (i allItem) Title() string       { return "Play all" }
func (i allItem) Description() string { return fmt.Sprintf("%d tracks in this folder", i.count) }
func (i allItem) FilterValue() string { return "all" }

// BrowserModel is the Bubbletea model for the startup file picker, shown
// when there is nothing to play yet.
type BrowserModel struct {
	dir    string
	list   list.Model
	result *BrowserResult
	err    error
}

// NewBrowser creates a file browser listing the audio files and playlists
// in dir.
func NewBrowser(dir string) BrowserModel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return BrowserModel{dir: dir, err: fmt.Errorf("cannot read directory: %w", err)}
	}

	var files []list.Item
	audio := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		switch {
		case media.IsSupportedExt(ext):
			audio++
			files = append(files, fileItem{name: name, ext: filepath.Ext(e.Name())})
		case media.IsPlaylistExt(ext):
			files = append(files, fileItem{name: name, ext: filepath.Ext(e.Name()), playlist: true})
		}
	}

	var items []list.Item
	if audio > 1 {
		items = append(items, allItem{count: audio})
	}
	items = append(items, files...)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#E9D5FF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#C084FC"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#7E22CE", Dark: "#C084FC"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "glassplay"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	return BrowserModel{dir: dir, list: l}
}

// HasError returns true if the browser could not be initialized.
func (m BrowserModel) HasError() bool {
	return m.err != nil
}

// Error returns the initialization error, if any.
func (m BrowserModel) Error() error {
	return m.err
}

// Empty reports whether there is nothing to pick.
func (m BrowserModel) Empty() bool {
	return m.err == nil && len(m.list.Items()) == 0
}

// Result returns the browser result after the program finishes.
func (m BrowserModel) Result() BrowserResult {
	if m.result != nil {
		return *m.result
	}
	return BrowserResult{Cancelled: true}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("glassplay")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case allItem:
				m.result = &BrowserResult{Path: m.dir}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			case fileItem:
				m.result = &BrowserResult{Path: filepath.Join(m.dir, item.name+item.ext)}
				return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
			}
		case "q", "esc", "ctrl+c":
			m.result = &BrowserResult{Cancelled: true}
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) View() string {
	if m.err != nil {
		return "\n  " + errorStyle.Render(m.err.Error()) + "\n"
	}
	return m.list.View()
}
