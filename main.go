package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/olivier-w/glassplay/internal/audiograph"
	"github.com/olivier-w/glassplay/internal/config"
	"github.com/olivier-w/glassplay/internal/logging"
	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/queue"
	"github.com/olivier-w/glassplay/internal/storage"
	"github.com/olivier-w/glassplay/internal/ui"
	"github.com/olivier-w/glassplay/internal/visualizer"
)

var errCancelled = errors.New("cancelled")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errCancelled) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && args[0] == "render" {
		return runRender(args[1:], os.Stdout)
	}
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return errors.New("glassplay needs an interactive terminal")
	}

	cfg := config.Load()
	logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	mode, err := visualizer.ParseMode(cfg.Mode)
	if err != nil {
		logger.Warn("falling back to bars", "err", err)
	}

	lib := openLibrary(cfg.StateDir, logger)

	tracks, err := startupTracks(args, lib)
	if err != nil {
		return err
	}

	engine := audiograph.NewEngine(audiograph.OtoHost{},
		audiograph.WithSampleRate(cfg.SampleRate),
		audiograph.WithFFTSize(cfg.FFTSize),
		audiograph.WithSmoothing(cfg.Smoothing),
		audiograph.WithLogger(logger),
	)

	model := ui.New(ui.Options{
		Engine:      engine,
		Queue:       queue.New(tracks),
		Library:     lib,
		Mode:        mode,
		FPS:         cfg.FPS,
		Volume:      cfg.Volume,
		Restore:     lib.LoadPlayerState(),
		SnapshotDir: ".",
		Logger:      logger,
	})
	logger.Info("starting", "tracks", len(tracks), "mode", mode.String(), "fps", cfg.FPS)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openLibrary opens the on-disk store. When the state directory is not
// writable the session still runs, without persistence across runs.
func openLibrary(dir string, logger *slog.Logger) *storage.Library {
	var store storage.Store
	fs, err := storage.NewFileStore(dir)
	if err != nil {
		logger.Warn("state directory unavailable, using memory store", "dir", dir, "err", err)
		store = storage.MemoryStore{}
	} else {
		store = fs
	}
	return storage.NewLibrary(store, storage.WithLogger(logger))
}

// startupTracks picks what to play: the arguments, else the saved
// playlist, else whatever the user chooses in the file browser.
func startupTracks(args []string, lib *storage.Library) ([]queue.Track, error) {
	if len(args) > 0 {
		tracks, err := resolveTracks(args)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			return nil, errors.New("no playable files found")
		}
		return tracks, nil
	}

	if tracks := ui.QueueTracks(lib.LoadPlaylist()); len(tracks) > 0 {
		return tracks, nil
	}

	path, err := browse(".")
	if err != nil {
		return nil, err
	}
	tracks, err := resolveTracks([]string{path})
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, errors.New("no playable files found")
	}
	return tracks, nil
}

func browse(dir string) (string, error) {
	browser := ui.NewBrowser(dir)
	if browser.HasError() {
		return "", browser.Error()
	}
	if browser.Empty() {
		return "", fmt.Errorf("nothing to play in %s (supported: %s)", dir, media.SupportedExtsList())
	}

	p := tea.NewProgram(browser, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	bm, ok := finalModel.(ui.BrowserModel)
	if !ok {
		return "", errors.New("unexpected model type from browser")
	}
	result := bm.Result()
	if result.Cancelled {
		return "", errCancelled
	}
	return result.Path, nil
}
