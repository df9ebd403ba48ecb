package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the interactive client
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - accepted login
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, rejected logins
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles
var (
	// TitleStyle is for the connection banner
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// AddrStyle is for the server address in the banner
	AddrStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SentStyle is for the echoed line the user sent
	SentStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// ResponseStyle is for server response bodies
	ResponseStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// ErrorStyle is for errors and ERROR_LOGIN responses
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// AcceptedStyle is for the accepted-login notice
	AcceptedStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// HintStyle is for the key hints under the input
	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor)
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
