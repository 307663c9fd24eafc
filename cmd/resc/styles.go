// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

var (
	purple = lipgloss.Color("#7C3AED")
	gray   = lipgloss.Color("#6B7280")
	silver = lipgloss.Color("#9CA3AF")
	green  = lipgloss.Color("#10B981")
	red    = lipgloss.Color("#EF4444")
	amber  = lipgloss.Color("#F59E0B")
	blue   = lipgloss.Color("#3B82F6")
)

// Output styles. Paths, keys and commands use CmdStyle; sizes and other
// secondary numbers use VerboseStyle.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(purple)
	SubtitleStyle = lipgloss.NewStyle().Foreground(gray)
	SuccessStyle  = lipgloss.NewStyle().Foreground(green)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(red)
	WarningStyle  = lipgloss.NewStyle().Foreground(amber)
	CmdStyle      = lipgloss.NewStyle().Foreground(blue)
	VerboseStyle  = lipgloss.NewStyle().Foreground(silver)
)
