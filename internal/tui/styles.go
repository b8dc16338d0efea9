// Package tui is a terminal sandbox that drives an input session from the
// keyboard.
package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Hanzi are warm, pinyin and Latin cool.
var (
	colorHanzi   = lipgloss.Color("#ffe66d")
	colorPinyin  = lipgloss.Color("#4ecdc4")
	colorAlert   = lipgloss.Color("#ff6b6b")
	colorDim     = lipgloss.Color("#6c757d")
	colorDone    = lipgloss.Color("#a8e6cf")
	colorText    = lipgloss.Color("#f1faee")
	colorBar     = lipgloss.Color("#1a1a2e")
	colorHighlit = lipgloss.Color("#2d3436")
	colorRule    = lipgloss.Color("#3d5a80")
)

// Title styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAlert).
			Background(colorBar).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorPinyin)
)

// Phrase styles
var (
	PhraseBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHanzi).
			Padding(0, 2).
			Margin(1, 0)

	WordStyle = lipgloss.NewStyle().
			Foreground(colorText)

	WordConfirmedStyle = lipgloss.NewStyle().
				Foreground(colorHanzi).
				Bold(true)

	WordCursorStyle = lipgloss.NewStyle().
			Foreground(colorHanzi).
			Background(colorHighlit).
			Bold(true)

	LatinStyle = lipgloss.NewStyle().
			Foreground(colorPinyin)

	PendingStyle = lipgloss.NewStyle().
			Foreground(colorPinyin).
			Underline(true)
)

// Candidate bar styles
var (
	CandidateStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	CandidateIndexStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	SpellStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	SpellActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorHanzi).
				Background(colorHighlit).
				Padding(0, 1)

	PageStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)
)

// Status styles
var (
	CommittedStyle = lipgloss.NewStyle().
			Foreground(colorDone)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorAlert).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(10)

	DividerStyle = lipgloss.NewStyle().
			Foreground(colorRule)
)
