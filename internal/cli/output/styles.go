package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Name    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF8C00")),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB347")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
		Name:    r.NewStyle().Foreground(lipgloss.Color("#5FAFFF")),
		Success: r.NewStyle().Foreground(lipgloss.Color("#00AF5F")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	}
}
