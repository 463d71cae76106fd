package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lenninsorteos/sorteo/internal/model"
)

// Theme groups the lipgloss styles shared by every screen.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
	Help      lipgloss.Style
	StatusBar lipgloss.Style
	ErrorText lipgloss.Style
	Box       lipgloss.Style

	Aprobado  lipgloss.Style
	Rechazado lipgloss.Style
	Revision  lipgloss.Style
}

// DefaultTheme is tuned for dark terminals, echoing the palette of the
// original web UI (green/red/yellow status badges on a slate background).
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2),

		Aprobado:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Rechazado: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Revision:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	}
}

// EstadoBadge renders an estado in its status color, uppercased the way
// the original UI showed badges.
func (t Theme) EstadoBadge(estado model.Estado) string {
	switch estado {
	case model.EstadoAprobado:
		return t.Aprobado.Render("APROBADO")
	case model.EstadoRechazado:
		return t.Rechazado.Render("RECHAZADO")
	default:
		return t.Revision.Render("EN REVISION")
	}
}
