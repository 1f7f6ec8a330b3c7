package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/glassplay/internal/audiograph"
	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/queue"
	"github.com/olivier-w/glassplay/internal/storage"
	"github.com/olivier-w/glassplay/internal/util"
	"github.com/olivier-w/glassplay/internal/visualizer"
)

const (
	seekStep      = 5 * time.Second
	volumeStep    = 0.05
	resumeTimeout = 2 * time.Second
	statusTTL     = 5 * time.Second
	playlistRows  = 5
	rasterScale   = 4
)

// Element is the playable media handle the model drives.
type Element interface {
	audiograph.MediaHandle
	Path() string
	Play()
	Pause()
	Paused() bool
	CurrentTime() time.Duration
	Duration() time.Duration
	SetCurrentTime(time.Duration) error
	Events() <-chan media.Event
	Ended() <-chan struct{}
	Close() error
}

// Opener opens path for playback at the given output rate.
type Opener func(path string, rate int) (Element, error)

// OpenMedia opens local files with the media package.
func OpenMedia(path string, rate int) (Element, error) {
	return media.Open(path, rate)
}

// PlaybackState is what the player shows and persists.
type PlaybackState struct {
	Playing     bool
	Index       int
	CurrentTime time.Duration
	Duration    time.Duration
	Volume      float64
}

// Options configures a Model.
type Options struct {
	Engine  *audiograph.Engine
	Queue   *queue.Queue
	Library *storage.Library
	Open    Opener

	Mode   visualizer.Mode
	FPS    int
	Volume float64
	// Restore is the saved player state, applied when its track is in
	// the queue.
	Restore *storage.PlayerState
	// SnapshotDir is where PNG snapshots are written.
	SnapshotDir string
	Logger      *slog.Logger
}

// Model is the Bubbletea model for the glassplay TUI.
type Model struct {
	engine  *audiograph.Engine
	queue   *queue.Queue
	library *storage.Library
	open    Opener
	log     *slog.Logger
	fps     int

	el       Element
	state    PlaybackState
	audioErr error
	resumed  bool

	frames  *visualizer.FrameQueue
	loop    *visualizer.Loop
	braille *visualizer.BrailleSurface
	raster  *visualizer.RasterSurface

	repeatMode  RepeatMode
	cursor      int
	progress    progress.Model
	help        help.Model
	volume      volumeSpring
	snapshotDir string

	// forget stops the session from being saved.
	forget bool

	width, height int
	status        string
	statusErr     bool
	statusTime    time.Time
	quitting      bool
}

// New builds the model, initializes the audio engine and loads the
// current track paused. Audio failures leave the player in a silent,
// static state instead of failing.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	open := opts.Open
	if open == nil {
		open = OpenMedia
	}
	q := opts.Queue
	if q == nil {
		q = queue.New(nil)
	}
	fps := max(opts.FPS, 1)

	m := Model{
		engine:      opts.Engine,
		queue:       q,
		library:     opts.Library,
		open:        open,
		log:         log,
		fps:         fps,
		frames:      visualizer.NewFrameQueue(),
		braille:     visualizer.NewBrailleSurface(60, 12),
		progress:    newProgress(),
		help:        help.New(),
		snapshotDir: opts.SnapshotDir,
	}
	if m.snapshotDir == "" {
		m.snapshotDir = "."
	}

	volume := opts.Volume
	startIdx, startAt := 0, time.Duration(0)
	if s := opts.Restore; s != nil {
		volume = s.Volume
		if i := q.IndexOf(s.CurrentTrackID); i >= 0 {
			startIdx = i
			startAt = time.Duration(s.CurrentTime * float64(time.Second))
		}
	}
	m.state.Volume = min(max(volume, 0), 1)
	m.volume = newVolumeSpring(fps, m.state.Volume)

	switch {
	case m.engine == nil || !m.engine.IsSupported():
		m.audioErr = audiograph.ErrUnsupportedEnvironment
	default:
		m.engine.SetVolume(m.state.Volume)
		if _, err := m.engine.Init(); err != nil {
			m.audioErr = err
		}
	}
	if m.audioErr != nil {
		log.Error("audio unavailable, playback disabled", "err", m.audioErr)
	}

	w, h := m.braille.CanvasSize()
	m.raster = visualizer.NewRasterSurface(int(w)*rasterScale, int(h)*rasterScale, rasterScale)
	var src visualizer.FrameSource = noAnalyser{}
	if m.engine != nil {
		src = m.engine
	}
	m.loop = visualizer.NewLoop(src, visualizer.Multi{m.braille, m.raster}, m.frames, visualizer.LoopConfig{
		Width:  w,
		Height: h,
		Mode:   opts.Mode,
		Logger: log,
	})
	m.loop.Resize(w, h)

	if q.Len() > 0 {
		if err := m.load(startIdx, startAt); err != nil {
			m.setError(err)
		}
	}
	return m
}

// noAnalyser stands in for a missing engine.
type noAnalyser struct{}

func (noAnalyser) Available() bool          { return false }
func (noAnalyser) SampleFrequency() []byte  { return []byte{} }
func (noAnalyser) SampleTimeDomain() []byte { return []byte{} }

// State returns the playback state.
func (m Model) State() PlaybackState { return m.state }

// Mode returns the active render mode.
func (m Model) Mode() visualizer.Mode { return m.loop.Mode() }

// Repeat returns the repeat setting.
func (m Model) Repeat() RepeatMode { return m.repeatMode }

// AudioErr reports why playback is disabled, if it is.
func (m Model) AudioErr() error { return m.audioErr }

func (m Model) playable() bool {
	return m.audioErr == nil && m.el != nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.fps), tea.SetWindowTitle(m.windowTitle()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		m.frames.RunFrame()
		var cmd tea.Cmd
		m, cmd = m.pollElement()
		m.volume.update(m.state.Volume)
		if m.status != "" && time.Since(m.statusTime) > statusTTL {
			m.status = ""
		}
		return m, tea.Batch(cmd, frameCmd(m.fps))

	case resumeResultMsg:
		if msg.err != nil {
			m.log.Warn("audio engine resume failed", "err", msg.err)
			m.setError(errors.New("audio engine suspended; press space to retry"))
			return m, nil
		}
		m.resumed = true
		return m, nil

	case snapshotSavedMsg:
		if msg.err != nil {
			m.log.Error("snapshot failed", "err", msg.err)
			m.setError(fmt.Errorf("snapshot failed: %w", msg.err))
		} else {
			m.setStatus("Saved " + msg.path)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.shutdown()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, keys.Play):
		return m.togglePlay()

	case key.Matches(msg, keys.Next):
		if t := m.queue.Next(); t != nil {
			return m.switchTo(m.queue.CurrentIndex(), m.state.Playing)
		}
	case key.Matches(msg, keys.Prev):
		if t := m.queue.Previous(); t != nil {
			return m.switchTo(m.queue.CurrentIndex(), m.state.Playing)
		}

	case key.Matches(msg, keys.Back):
		m.seek(-seekStep)
	case key.Matches(msg, keys.Forward):
		m.seek(seekStep)

	case key.Matches(msg, keys.VolUp):
		m.setVolume(m.state.Volume + volumeStep)
	case key.Matches(msg, keys.VolDown):
		m.setVolume(m.state.Volume - volumeStep)

	case key.Matches(msg, keys.Mode):
		mode := m.loop.Mode().Next()
		m.loop.SetMode(mode)
		m.setStatus("Visualizer: " + mode.String())

	case key.Matches(msg, keys.Repeat):
		m.repeatMode = m.repeatMode.Next()

	case key.Matches(msg, keys.Shuffle):
		if m.queue.IsShuffled() {
			m.queue.DisableShuffle()
		} else {
			m.queue.EnableShuffle()
		}

	case key.Matches(msg, keys.Snapshot):
		return m, m.snapshotCmd()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < m.queue.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Select):
		if m.queue.Track(m.cursor) != nil {
			return m.switchTo(m.cursor, true)
		}
	case key.Matches(msg, keys.Remove):
		m.removeAt(m.cursor)
	case key.Matches(msg, keys.Forget):
		m.toggleForget()
	}
	return m, nil
}

// togglePlay flips playback. The first gesture also resumes the engine,
// and a rejected resume is retried on the next one. An engine that failed
// to build is retried too.
func (m Model) togglePlay() (Model, tea.Cmd) {
	if m.audioErr != nil {
		m.retryAudio()
	}
	if !m.playable() {
		if m.audioErr != nil {
			m.setError(fmt.Errorf("playback unavailable: %w", m.audioErr))
		}
		return m, nil
	}
	var cmds []tea.Cmd
	if !m.resumed {
		cmds = append(cmds, resumeCmd(m.engine))
	}
	if m.state.Playing {
		m.el.Pause()
		m.setPlaying(false)
	} else {
		m.el.Play()
		m.setPlaying(true)
	}
	cmds = append(cmds, tea.SetWindowTitle(m.windowTitle()))
	return m, tea.Batch(cmds...)
}

// retryAudio builds the engine again after a construction failure and
// binds the loaded track. An unsupported environment is not retried.
func (m *Model) retryAudio() {
	if m.engine == nil || !m.engine.IsSupported() {
		return
	}
	if _, err := m.engine.Init(); err != nil {
		m.audioErr = err
		m.log.Warn("audio engine still unavailable", "err", err)
		return
	}
	m.audioErr = nil
	m.engine.SetVolume(m.state.Volume)
	if m.el != nil {
		if _, err := m.engine.Bind(m.el); err != nil {
			m.log.Error("binding track failed", "path", m.el.Path(), "err", err)
		}
	}
	m.loop.Refresh()
	m.log.Info("audio engine available after retry")
}

func resumeCmd(e *audiograph.Engine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resumeTimeout)
		defer cancel()
		return resumeResultMsg{err: e.Resume(ctx)}
	}
}

func (m *Model) setPlaying(playing bool) {
	m.state.Playing = playing
	m.loop.SetPlaying(playing)
}

// switchTo loads track i and starts it if play is set.
func (m Model) switchTo(i int, play bool) (Model, tea.Cmd) {
	if err := m.load(i, 0); err != nil {
		m.log.Error("loading track failed", "index", i, "err", err)
		m.setError(err)
		m.setPlaying(false)
		return m, nil
	}
	m.cursor = i
	if play && m.playable() {
		m.el.Play()
		m.setPlaying(true)
	} else {
		m.setPlaying(false)
	}
	return m, tea.SetWindowTitle(m.windowTitle())
}

// load replaces the current element with track i, positioned at at and
// paused. The previous element is unbound before it is closed.
func (m *Model) load(i int, at time.Duration) error {
	t := m.queue.Track(i)
	if t == nil {
		return fmt.Errorf("no track at index %d", i)
	}
	m.unload()
	m.queue.SetCurrentIndex(i)
	m.state.Index = i
	m.state.CurrentTime = 0
	m.state.Duration = t.Duration
	m.cursor = i

	el, err := m.open(t.Path, m.sampleRate())
	if err != nil {
		return fmt.Errorf("opening %s: %w", t.Title, err)
	}
	if at > 0 {
		if err := el.SetCurrentTime(at); err != nil {
			m.log.Warn("restoring position failed", "track", t.Title, "err", err)
		}
	}
	if m.audioErr == nil {
		if _, err := m.engine.Bind(el); err != nil {
			m.log.Error("binding track failed", "track", t.Title, "err", err)
		}
	}
	m.el = el
	m.state.CurrentTime = el.CurrentTime()
	if d := el.Duration(); d > 0 {
		m.state.Duration = d
	}
	m.log.Debug("track loaded", "track", t.Title, "index", i)
	return nil
}

func (m *Model) unload() {
	if m.el == nil {
		return
	}
	if m.audioErr == nil {
		m.engine.Unbind()
	}
	if err := m.el.Close(); err != nil {
		m.log.Warn("closing track failed", "path", m.el.Path(), "err", err)
	}
	m.el = nil
}

func (m Model) sampleRate() int {
	if m.engine == nil {
		return audiograph.DefaultSampleRate
	}
	return m.engine.SampleRate()
}

// pollElement drains element notifications and handles the end of the
// stream.
func (m Model) pollElement() (Model, tea.Cmd) {
	if m.el == nil {
		return m, nil
	}
	for drained := false; !drained; {
		select {
		case ev := <-m.el.Events():
			switch ev.Type {
			case media.EventPlay:
				m.setPlaying(true)
			case media.EventPause:
				if m.el.Paused() {
					m.setPlaying(false)
				}
			case media.EventLoadedMetadata:
				if d := m.el.Duration(); d > 0 {
					m.state.Duration = d
				}
			}
		default:
			drained = true
		}
	}
	m.state.CurrentTime = m.el.CurrentTime()

	select {
	case <-m.el.Ended():
		return m.handleEnded()
	default:
	}
	return m, nil
}

// handleEnded advances after a track finishes. The element's end signal
// is one-shot, so every branch loads a fresh element.
func (m Model) handleEnded() (Model, tea.Cmd) {
	m.log.Debug("track ended", "index", m.state.Index, "repeat", m.repeatMode.String())
	switch m.repeatMode {
	case RepeatOne:
		return m.switchTo(m.state.Index, true)
	case RepeatOff:
		if m.queue.IsLast() {
			m.queue.Next()
			return m.switchTo(m.queue.CurrentIndex(), false)
		}
	}
	m.queue.Next()
	return m.switchTo(m.queue.CurrentIndex(), true)
}

func (m *Model) seek(delta time.Duration) {
	if m.el == nil {
		return
	}
	target := m.el.CurrentTime() + delta
	if target < 0 {
		target = 0
	}
	if m.state.Duration > 0 && target > m.state.Duration {
		target = m.state.Duration
	}
	if err := m.el.SetCurrentTime(target); err != nil {
		m.log.Warn("seek failed", "err", err)
		m.setError(err)
		return
	}
	m.state.CurrentTime = m.el.CurrentTime()
}

func (m *Model) setVolume(v float64) {
	v = min(max(v, 0), 1)
	m.state.Volume = v
	if m.engine != nil {
		m.engine.SetVolume(v)
	}
}

func (m Model) snapshotCmd() tea.Cmd {
	raster, dir, mode := m.raster, m.snapshotDir, m.loop.Mode()
	return func() tea.Msg {
		name := fmt.Sprintf("glassplay-%s-%s.png", mode, time.Now().Format("20060102-150405"))
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return snapshotSavedMsg{err: err}
		}
		f, err := os.Create(path)
		if err != nil {
			return snapshotSavedMsg{err: err}
		}
		if err := raster.WritePNG(f, 1); err != nil {
			f.Close()
			return snapshotSavedMsg{err: err}
		}
		if err := f.Close(); err != nil {
			return snapshotSavedMsg{err: err}
		}
		return snapshotSavedMsg{path: path}
	}
}

// shutdown persists the session and releases audio resources.
func (m *Model) shutdown() {
	m.quitting = true
	m.persist()
	m.loop.Close()
	m.unload()
}

// removeAt drops track i from the queue and saves the shorter playlist.
// The current track cannot be removed.
func (m *Model) removeAt(i int) {
	t := m.queue.Track(i)
	if t == nil {
		return
	}
	if !m.queue.Remove(i) {
		m.setError(errors.New("cannot remove the current track"))
		return
	}
	m.state.Index = m.queue.CurrentIndex()
	m.cursor = min(m.cursor, m.queue.Len()-1)
	if m.width > 0 {
		m.resize()
	}
	if m.library != nil && !m.forget {
		m.library.SavePlaylist(StoredTracks(m.queue.Tracks()))
	}
	m.setStatus("Removed " + t.Title)
}

// toggleForget clears the saved session and stops saving it. Toggling
// back saves the current session at once.
func (m *Model) toggleForget() {
	if m.library == nil {
		return
	}
	m.forget = !m.forget
	if m.forget {
		m.library.ClearPlaylist()
		m.library.ClearPlayerState()
		m.setStatus("Saved session cleared")
		return
	}
	m.persist()
	m.setStatus("Session will be saved")
}

func (m *Model) persist() {
	if m.library == nil || m.forget {
		return
	}
	m.library.SavePlaylist(StoredTracks(m.queue.Tracks()))
	state := storage.PlayerState{
		CurrentTime: m.state.CurrentTime.Seconds(),
		Volume:      m.state.Volume,
		IsPlaying:   m.state.Playing,
	}
	if t := m.queue.Current(); t != nil {
		state.CurrentTrackID = t.ID
	}
	m.library.SavePlayerState(state)
}

func (m *Model) resize() {
	cols := max(m.width-4, 16)
	rows := max(m.height-15-min(m.queue.Len(), playlistRows), 4)
	m.braille.Resize(cols, rows)
	w, h := m.braille.CanvasSize()
	m.raster.Resize(int(w)*rasterScale, int(h)*rasterScale)
	m.loop.Resize(w, h)
	m.progress.Width = max(m.width-20, 10)
	m.help.Width = max(m.width-4, 20)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
	m.statusTime = time.Now()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("glassplay") + "\n\n")

	if t := m.queue.Current(); t != nil {
		b.WriteString("  " + titleStyle.Render(t.Title) + "\n")
		if t.Artist != "" {
			b.WriteString("  " + artistStyle.Render(t.Artist) + "\n")
		}
	} else {
		b.WriteString("  " + artistStyle.Render("No tracks") + "\n")
	}
	b.WriteString("\n")

	viz := m.braille.String()
	if viz != "" {
		b.WriteString(indent(panelStyle.Render(viz), "  ") + "\n")
	}

	elapsed := util.FormatDuration(m.state.CurrentTime)
	total := util.FormatDuration(m.state.Duration)
	bar := m.progress.ViewAs(progressRatio(m.state.CurrentTime.Seconds(), m.state.Duration.Seconds()))
	b.WriteString(fmt.Sprintf("  %s %s %s\n\n", timeStyle.Render(elapsed), bar, timeStyle.Render(total)))

	b.WriteString("  " + m.statusLine() + "\n")
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("  " + style.Render(m.status) + "\n")
	}

	if m.queue.Len() > 1 {
		b.WriteString("\n" + m.playlistView())
	}

	b.WriteString("\n  " + helpStyle.Render(m.help.ShortHelpView(keys.ShortHelp())) + "\n")
	return b.String()
}

func (m Model) statusLine() string {
	icon, text := "▶", "playing"
	if !m.state.Playing {
		icon, text = "❚❚", "paused"
	}
	if m.audioErr != nil {
		icon, text = "✕", "audio unavailable"
	}
	left := fmt.Sprintf("%s  %s  %s", icon, text, m.loop.Mode())
	if s := m.repeatMode.Icon(); s != "" {
		left += "  " + s
	}
	if m.queue.IsShuffled() {
		left += "  [shuffle]"
	}
	if m.forget {
		left += "  [not saved]"
	}
	right := renderVolumeMeter(m.volume.pos, 10) + " " + renderVolumePercent(m.state.Volume)
	gap := max(m.width-len([]rune(left))-len([]rune(right))-4, 2)
	return statusStyle.Render(left) + strings.Repeat(" ", gap) + statusStyle.Render(right)
}

func (m Model) playlistView() string {
	n := m.queue.Len()
	start := max(min(m.cursor-playlistRows/2, n-playlistRows), 0)
	end := min(start+playlistRows, n)

	var b strings.Builder
	for i := start; i < end; i++ {
		t := m.queue.Track(i)
		line := fmt.Sprintf("%2d. %s", i+1, t.Title)
		if t.Artist != "" {
			line += " - " + t.Artist
		}
		if t.Duration > 0 {
			line += "  " + util.FormatDuration(t.Duration)
		}
		prefix := "  "
		style := trackStyle
		switch {
		case i == m.queue.CurrentIndex():
			prefix = "♪ "
			style = currentTrackStyle
		case i == m.cursor:
			prefix = "› "
			style = cursorTrackStyle
		}
		if i == m.cursor && i == m.queue.CurrentIndex() {
			prefix = "♪›"
		}
		b.WriteString("  " + style.Render(prefix+line) + "\n")
	}
	return b.String()
}

func (m Model) windowTitle() string {
	t := m.queue.Current()
	if t == nil {
		return "glassplay"
	}
	if !m.state.Playing {
		return "⏸ " + t.Title + " - glassplay"
	}
	return "▶ " + t.Title + " - glassplay"
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
