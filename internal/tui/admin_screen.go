package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lenninsorteos/sorteo/internal/model"
	"github.com/lenninsorteos/sorteo/internal/moderation"
)

func ticketColumns(width int) []table.Column {
	nameWidth := width - 64
	if nameWidth < 12 {
		nameWidth = 12
	}
	if nameWidth > 30 {
		nameWidth = 30
	}
	return []table.Column{
		{Title: "Ticket", Width: 10},
		{Title: "Nombre", Width: nameWidth},
		{Title: "DNI", Width: 9},
		{Title: "WhatsApp", Width: 10},
		{Title: "Región", Width: 13},
		{Title: "Monto", Width: 8},
		{Title: "Estado", Width: 10},
	}
}

// syncTable rebuilds the table rows from the moderation view, applying
// the DNI filter. Pure projection: recomputed on every change, nothing
// cached.
func (m *Model) syncTable() {
	m.visible = m.view.FilterByDNI(m.filterInput.Value())
	rows := make([]table.Row, 0, len(m.visible))
	for _, t := range m.visible {
		rows = append(rows, table.Row{
			t.TicketID, t.Nombre, t.DNI, t.WhatsApp, t.Region, t.MontoDisplay(), string(t.Estado),
		})
	}
	m.ticketTable.SetRows(rows)
}

// selectedTicket returns the record under the table cursor.
func (m *Model) selectedTicket() (model.TicketRecord, bool) {
	cursor := m.ticketTable.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return model.TicketRecord{}, false
	}
	return m.visible[cursor], true
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "h":
		m.screen = screenHome
		m.clearNotice()
		return m, nil
	case "p":
		m.screen = screenParticipants
		m.syncTable()
		return m, nil
	case "r":
		m.refreshing = true
		return m, m.refreshCmd()
	case "e":
		m.exportCSV()
		return m, nil
	case "l":
		m.session.Logout()
		m.screen = screenHome
		m.setNotice("Sesión cerrada")
		return m, nil
	}
	return m, nil
}

// exportCSV writes the full (unfiltered) collection to the conventional
// dated filename in the working directory.
func (m *Model) exportCSV() {
	name := moderation.DefaultExportName(time.Now())
	file, err := os.Create(name)
	if err != nil {
		m.setError(fmt.Errorf("creando %s: %w", name, err))
		return
	}
	defer file.Close()
	if err := moderation.ExportCSV(file, m.view.Tickets()); err != nil {
		m.setError(err)
		return
	}
	m.setNotice("Exportado a " + name)
}

func (m *Model) viewDashboard() string {
	stats := m.view.Stats()

	statBox := func(label string, value int, style lipgloss.Style) string {
		return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Label.Render(label),
			style.Render(fmt.Sprintf("%d", value)),
		))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		statBox("Total", stats.Total, m.theme.Title),
		statBox("Aprobados", stats.Aprobados, m.theme.Aprobado),
		statBox("Rechazados", stats.Rechazados, m.theme.Rechazado),
		statBox("En revisión", stats.Revision, m.theme.Revision),
	)

	status := ""
	if m.refreshing {
		status = m.theme.Subtitle.Render("Actualizando...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Dashboard"),
		"",
		row,
		status,
		"",
		m.theme.Help.Render("p participantes · r actualizar · e exportar CSV · l salir de sesión · esc inicio"),
	)
}

func (m *Model) updateParticipants(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.Blur()
			return m, nil
		case "enter":
			m.filtering = false
			m.filterInput.Blur()
			m.syncTable()
			return m, nil
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.syncTable()
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.screen = screenDashboard
		m.clearNotice()
		return m, nil
	case "/":
		m.filtering = true
		return m, m.filterInput.Focus()
	case "r":
		m.refreshing = true
		return m, m.refreshCmd()
	case "a":
		if t, ok := m.selectedTicket(); ok {
			m.clearNotice()
			return m, m.setStatusCmd(t.TicketID, model.EstadoAprobado)
		}
	case "x":
		if t, ok := m.selectedTicket(); ok {
			m.clearNotice()
			return m, m.setStatusCmd(t.TicketID, model.EstadoRechazado)
		}
	case "enter", "v":
		if t, ok := m.selectedTicket(); ok {
			ticket := t
			m.detail = &ticket
			m.detailReturn = screenParticipants
			m.screen = screenDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ticketTable, cmd = m.ticketTable.Update(msg)
	return m, cmd
}

func (m *Model) viewParticipants() string {
	filter := m.theme.Label.Render("Filtro DNI: ") + m.filterInput.View()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Participantes"),
		"",
		filter,
		"",
		m.ticketTable.View(),
		"",
		m.theme.Help.Render("↑↓ mover · / filtrar · a aprobar · x rechazar · v ver · r actualizar · esc dashboard"),
	)
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.screen = m.detailReturn
		m.detail = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) viewDetail() string {
	if m.detail == nil {
		return ""
	}
	t := *m.detail
	lines := []string{
		m.theme.Title.Render(t.Nombre),
		"",
		m.theme.Label.Render("Ticket:      ") + t.TicketID,
		m.theme.Label.Render("DNI:         ") + t.DNI,
		m.theme.Label.Render("WhatsApp:    ") + t.WhatsApp,
		m.theme.Label.Render("Región:      ") + t.Region,
		m.theme.Label.Render("Monto:       ") + t.MontoDisplay(),
		m.theme.Label.Render("Estado:      ") + m.theme.EstadoBadge(t.Estado),
	}
	if !t.FechaRegistro.IsZero() {
		lines = append(lines, m.theme.Label.Render("Registrado:  ")+t.FechaRegistro.Format("02/01/2006 15:04:05"))
	}
	if t.ComprobanteURL != "" {
		lines = append(lines, m.theme.Label.Render("Comprobante: ")+m.client.ComprobanteURL(t))
	}
	lines = append(lines, "", m.theme.Help.Render("esc volver"))
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
