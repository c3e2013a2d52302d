// Package termview renders one analyzer frame result per tick as a live
// terminal dashboard: the smoothed spectrum bars, kick/snare hit lamps,
// the groove readout and the voice readout. It is a thin display layer
// over the analysis core; no analysis happens here.
package termview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/sonicpulse/internal/cli"
	"github.com/linuxmatters/sonicpulse/internal/core"
)

// FrameMsg delivers one analysis frame result to the view.
type FrameMsg struct {
	Result  core.FrameResult
	Elapsed time.Duration
}

// DoneMsg signals the end of the input stream.
type DoneMsg struct {
	Duration time.Duration
	Frames   int
}

// quitTimerMsg is sent when it's time to quit after showing completion
type quitTimerMsg struct{}

var (
	barStyle = lipgloss.NewStyle().Foreground(cli.PulseCyan)

	kickLampOn = lipgloss.NewStyle().Bold(true).Foreground(cli.PulseMagenta)
	lampOff    = lipgloss.NewStyle().Foreground(cli.CoolGray)

	snareLampOn = lipgloss.NewStyle().Bold(true).Foreground(cli.PulseViolet)

	labelStyle = lipgloss.NewStyle().Foreground(cli.CoolGray)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.PulseCyan)
	noteStyle  = lipgloss.NewStyle().Bold(true).Foreground(cli.PulseMagenta)
)

var barGlyphs = []rune(" ▁▂▃▄▅▆▇█")

// Model implements the Bubbletea model for the live analysis view.
type Model struct {
	confidence progress.Model
	last       core.FrameResult
	elapsed    time.Duration
	done       *DoneMsg
	width      int
	height     int
	quitting   bool
}

// New creates a live-view model.
func New() *Model {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	return &Model{confidence: p, width: 80}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.confidence.Width = min(msg.Width-40, 40)
		return m, nil

	case FrameMsg:
		m.last = msg.Result
		m.elapsed = msg.Elapsed
		return m, nil

	case DoneMsg:
		m.done = &msg
		m.quitting = true
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return quitTimerMsg{}
		})

	case quitTimerMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the dashboard
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(cli.TitleStyle.Render("Sonicpulse 🎧"))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderSpectrum())
	sb.WriteString("\n\n")

	sb.WriteString(m.renderDrums())
	sb.WriteString("\n")
	sb.WriteString(m.renderVoice())
	sb.WriteString("\n\n")

	if m.done != nil {
		sb.WriteString(cli.SuccessStyle.Render(
			fmt.Sprintf("✓ Stream complete: %d frames in %s", m.done.Frames, cli.FormatDuration(m.done.Duration))))
		sb.WriteString("\n")
	} else {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("elapsed %s · press q to quit", cli.FormatDuration(m.elapsed))))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderSpectrum downsamples the bar bank to the terminal width and maps
// each bar height onto a block glyph.
func (m *Model) renderSpectrum() string {
	bars := m.last.Spectrum
	if len(bars) == 0 {
		return labelStyle.Render("waiting for audio…")
	}

	width := m.width - 4
	if width < 16 {
		width = 16
	}
	if width > len(bars) {
		width = len(bars)
	}

	var sb strings.Builder
	cell := float64(len(bars)) / float64(width)
	for col := 0; col < width; col++ {
		start := int(float64(col) * cell)
		end := int(float64(col+1) * cell)
		if end <= start {
			end = start + 1
		}
		peak := 0.0
		for _, v := range bars[start:min(end, len(bars))] {
			if v > peak {
				peak = v
			}
		}
		idx := int(peak * float64(len(barGlyphs)-1))
		if idx > len(barGlyphs)-1 {
			idx = len(barGlyphs) - 1
		}
		sb.WriteRune(barGlyphs[idx])
	}
	return barStyle.Render(sb.String())
}

func (m *Model) renderDrums() string {
	kick := lampOff.Render("● kick")
	if m.last.Kick.DisplayStrength > 0 {
		kick = kickLampOn.Render(fmt.Sprintf("● kick %3.0f", m.last.Kick.DisplayVelocity))
	}
	snare := lampOff.Render("● snare")
	if m.last.Snare.DisplayStrength > 0 {
		snare = snareLampOn.Render(fmt.Sprintf("● snare %3.0f", m.last.Snare.DisplayVelocity))
	}

	groove := m.last.Groove
	tempo := labelStyle.Render("tempo ") + valueStyle.Render(fmt.Sprintf("%5.1f BPM", m.last.BPM))
	pattern := labelStyle.Render("groove ") + valueStyle.Render(groove.Pattern)
	if groove.PatternLocked {
		pattern += lampOff.Render(" (locked)")
	}

	return fmt.Sprintf("%s  %s  %s  %s", kick, snare, tempo, pattern)
}

func (m *Model) renderVoice() string {
	v := m.last.Voice
	if !v.HasVoice {
		return lampOff.Render("● voice") + "  " + m.confidence.ViewAs(0)
	}

	line := kickLampOn.Render("● voice")
	if v.PitchNote != "" {
		line += "  " + noteStyle.Render(v.PitchNote) + labelStyle.Render(fmt.Sprintf(" %.1f Hz", v.Pitch))
	} else if v.Pitch > 0 {
		line += "  " + labelStyle.Render(fmt.Sprintf("%.1f Hz", v.Pitch))
	}
	if v.VoiceType != "unknown" {
		line += "  " + valueStyle.Render(v.VoiceType)
	}
	if v.IsSinging {
		line += "  " + noteStyle.Render("♪ singing")
		if v.Vibrato != nil && v.Vibrato.Detected {
			line += labelStyle.Render(fmt.Sprintf(" vibrato %.1f Hz", v.Vibrato.RateHz))
		}
	}
	line += "  " + m.confidence.ViewAs(v.VoiceConfidence)
	return line
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
