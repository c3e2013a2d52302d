package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/sonicpulse/internal/cli"
	"github.com/linuxmatters/sonicpulse/internal/config"
	"github.com/linuxmatters/sonicpulse/internal/core"
	"github.com/linuxmatters/sonicpulse/internal/decoders"
	"github.com/linuxmatters/sonicpulse/internal/termview"
)

const version = "0.1.0"

var CLI struct {
	Input       string  `arg:"" name:"input" help:"Input audio file (.wav, .flac or .mp3) at 48 kHz" type:"existingfile" optional:""`
	Bars        int     `help:"Number of spectrum bars" default:"512"`
	Sensitivity float64 `help:"Drum onset sensitivity multiplier" default:"1.0"`
	Realtime    bool    `help:"Pace playback at real time instead of analyzing as fast as possible" default:"true" negatable:""`
	Version     bool    `help:"Show version information" short:"v"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sonicpulse"),
		kong.Description("Live spectrum, beat and voice analysis for 48 kHz audio, right in your terminal."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)
	_ = ctx

	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}
	if CLI.Input == "" {
		cli.PrintError("<input> is required")
		os.Exit(1)
	}

	cfg, err := config.New(
		config.WithBars(CLI.Bars),
		config.WithDrumSensitivity(CLI.Sensitivity),
	)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	src, err := decoders.Open(CLI.Input, cfg.SampleRate)
	if err != nil {
		if errors.Is(err, decoders.ErrUnsupportedRate) {
			cli.PrintError(fmt.Sprintf("%v (resample the file to 48 kHz first)", err))
		} else {
			cli.PrintError(err.Error())
		}
		os.Exit(1)
	}
	defer src.Close()

	if err := runLive(cfg, src); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// runLive streams the file through the analyzer on one goroutine while the
// Bubbletea view runs on the main goroutine, receiving a FrameMsg per
// analyzed chunk.
func runLive(cfg config.Config, src decoders.Source) error {
	program := tea.NewProgram(termview.New(), tea.WithAltScreen())

	go func() {
		analyzer := core.New(cfg)
		reader := decoders.NewChunkReader(src, cfg.ChunkSize)
		frameDur := time.Duration(float64(cfg.ChunkSize) / float64(cfg.SampleRate) * float64(time.Second))

		start := time.Now()
		frames := 0
		for {
			chunk, err := reader.Next()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					cli.PrintWarning(fmt.Sprintf("decode stopped early: %v", err))
				}
				break
			}

			now := time.Now()
			result := analyzer.Update(chunk, now)
			frames++
			program.Send(termview.FrameMsg{Result: result, Elapsed: now.Sub(start)})

			if CLI.Realtime {
				if ahead := time.Duration(frames)*frameDur - time.Since(start); ahead > 0 {
					time.Sleep(ahead)
				}
			}
		}
		program.Send(termview.DoneMsg{Duration: time.Since(start), Frames: frames})
	}()

	_, err := program.Run()
	return err
}
