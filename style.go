package main

import "github.com/charmbracelet/lipgloss"

var (
	keyword   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render
	paragraph = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2).Render

	hanziStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	pickedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)
