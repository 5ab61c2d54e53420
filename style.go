package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	cream   = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	red     = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	fuchsia = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	gray    = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray = lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#B2B2B2"}
	green   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"}
)

var (
	errorTitleStyle = lipgloss.NewStyle().Foreground(cream).Background(red).Padding(0, 1)
	locationStyle   = lipgloss.NewStyle().Foreground(fuchsia)
	sourceLineStyle = lipgloss.NewStyle().Foreground(midGray)
	gutterStyle     = lipgloss.NewStyle().Foreground(gray)
	caretStyle      = lipgloss.NewStyle().Foreground(red).Bold(true)
	keywordStyle    = lipgloss.NewStyle().Foreground(green)
)

func keyword(s string) string {
	return keywordStyle.Render(s)
}

func paragraph(s string) string {
	return lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render(s)
}
