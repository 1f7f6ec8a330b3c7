package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/olivier-w/glassplay/internal/audiograph"
	"github.com/olivier-w/glassplay/internal/config"
	"github.com/olivier-w/glassplay/internal/media"
	"github.com/olivier-w/glassplay/internal/visualizer"
)

// renderBackground is the panel colour snapshots are painted on.
var renderBackground = color.NRGBA{R: 17, G: 17, B: 27, A: 255}

// runRender implements "glassplay render": it plays the start of a file
// through an offline engine, lets the render loop draw a few frames on
// its own timer, and writes the last one to a PNG. No terminal or sound
// device is needed.
//
// Usage:
//
//	glassplay render [-mode bars] [-at 1m30s] [-size 640x360] [-o out.png] FILE
func runRender(args []string, stdout io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	modeName := fs.String("mode", cfg.Mode, "visualizer mode: bars, waveform or radial")
	at := fs.Duration("at", 0, "position in the track to render")
	size := fs.String("size", "640x360", "image size WIDTHxHEIGHT in pixels")
	out := fs.String("o", "", "output file (default glassplay-<mode>.png)")
	frames := fs.Int("frames", 8, "frames to render before the snapshot is taken")
	fps := fs.Int("fps", cfg.FPS, "frame rate of the render loop")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: glassplay render [flags] FILE\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errCancelled
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("render needs exactly one audio file")
	}

	mode, err := visualizer.ParseMode(*modeName)
	if err != nil {
		return err
	}
	var width, height int
	if _, err := fmt.Sscanf(*size, "%dx%d", &width, &height); err != nil || width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %q", *size)
	}
	*frames = max(*frames, 1)
	*fps = min(max(*fps, 1), 120)
	if *out == "" {
		*out = fmt.Sprintf("glassplay-%s.png", mode)
	}

	host := &audiograph.ManualHost{}
	engine := audiograph.NewEngine(host,
		audiograph.WithSampleRate(cfg.SampleRate),
		audiograph.WithFFTSize(cfg.FFTSize),
		audiograph.WithSmoothing(cfg.Smoothing),
	)
	if _, err := engine.Init(); err != nil {
		return err
	}

	el, err := media.Open(fs.Arg(0), engine.SampleRate())
	if err != nil {
		return err
	}
	defer el.Close()
	if *at > 0 {
		if err := el.SetCurrentTime(*at); err != nil {
			return fmt.Errorf("seeking to %s: %w", *at, err)
		}
	}
	if _, err := engine.Bind(el); err != nil {
		return err
	}
	el.Play()

	raster := visualizer.NewRasterSurface(width, height, 1)
	raster.SetBackground(renderBackground)
	loop := visualizer.NewLoop(engine, raster, visualizer.NewTimerScheduler(*fps), visualizer.LoopConfig{
		Width:  float64(width),
		Height: float64(height),
		Mode:   mode,
	})
	loop.SetPlaying(true)

	if err := pumpFrames(host.Context(), raster, engine.SampleRate(), *frames, *fps); err != nil {
		loop.Close()
		return err
	}
	loop.Close()

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := raster.WritePNG(f, 1); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(stdout, *out)
	return nil
}

// pumpFrames feeds one frame interval of audio to the destination per
// painted frame, so the analyser sees the track advance in real time.
func pumpFrames(ctx *audiograph.ManualContext, raster *visualizer.RasterSurface, rate, frames, fps int) error {
	interval := time.Second / time.Duration(fps)
	deadline := time.Now().Add(time.Duration(frames+2)*interval + 2*time.Second)
	perFrame := max(rate/fps, 1)

	// The first paint happens synchronously when the loop starts.
	for painted := raster.Painted(); painted < frames+1; {
		ctx.Pull(perFrame)
		for raster.Painted() == painted {
			if time.Now().After(deadline) {
				return errors.New("render loop stalled")
			}
			time.Sleep(interval / 4)
		}
		painted = raster.Painted()
	}
	return nil
}
