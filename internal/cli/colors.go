package cli

import "github.com/charmbracelet/lipgloss"

// Pulse colour palette 🎧
// Shared neon theme colours for consistent branding across CLI and TUI
var (
	// Core pulse colours (cool to hot)
	PulseCyan    = lipgloss.Color("#00E5FF") // Electric cyan
	PulseBlue    = lipgloss.Color("#2979FF") // Deep signal blue
	PulseMagenta = lipgloss.Color("#FF2E93") // Hot magenta
	PulseViolet  = lipgloss.Color("#7C4DFF") // Deep violet

	// Accent colours
	CoolGray = lipgloss.Color("#6B7C8C") // Slate gray for subtle text
)
