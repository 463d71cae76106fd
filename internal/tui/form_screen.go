package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lenninsorteos/sorteo/internal/model"
)

// focusFormInput moves textinput focus to match formFocus.
func (m *Model) focusFormInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.formFocus {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

// resetFormInputs clears the visible inputs after the controller reset
// its own state on a successful submission.
func (m *Model) resetFormInputs() {
	for i := range m.formInputs {
		m.formInputs[i].SetValue("")
	}
	m.regionIdx = 0
	m.consent = false
	m.formFocus = 0
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenHome
		m.clearNotice()
		return m, nil

	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % (formFocusSubmit + 1)
		return m, m.focusFormInput()

	case "shift+tab", "up":
		m.formFocus--
		if m.formFocus < 0 {
			m.formFocus = formFocusSubmit
		}
		return m, m.focusFormInput()

	case "left":
		if m.formFocus == formFocusRegion {
			m.regionIdx--
			if m.regionIdx < 0 {
				m.regionIdx = len(model.Regions) - 1
			}
			return m, nil
		}

	case "right":
		if m.formFocus == formFocusRegion {
			m.regionIdx = (m.regionIdx + 1) % len(model.Regions)
			return m, nil
		}

	case " ":
		if m.formFocus == formFocusConsent {
			m.consent = !m.consent
			return m, nil
		}

	case "enter":
		if m.formFocus == formFocusSubmit {
			return m.startSubmit()
		}
		// Enter elsewhere advances, like the web form's tab order.
		m.formFocus = (m.formFocus + 1) % (formFocusSubmit + 1)
		return m, m.focusFormInput()
	}

	if m.formFocus < formFieldCount {
		var cmd tea.Cmd
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// startSubmit pushes the visible input into the form controller and
// launches the submission. Local validation failures surface immediately
// without any network call.
func (m *Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.clearNotice()

	_ = m.form.SetField("nombre", m.formInputs[0].Value())
	_ = m.form.SetField("dni", m.formInputs[1].Value())
	_ = m.form.SetField("whatsapp", m.formInputs[2].Value())
	_ = m.form.SetField("region", model.Regions[m.regionIdx])
	m.form.SetConsent(m.consent)

	if path := m.formInputs[3].Value(); path != "" {
		if err := m.form.SelectProofImageFile(path); err != nil {
			m.setError(err)
			return m, nil
		}
	}

	m.submitting = true
	return m, m.submitCmd()
}

func (m *Model) viewForm() string {
	labels := []string{"Nombre", "DNI", "WhatsApp", "Comprobante"}
	var lines []string
	lines = append(lines, m.theme.Title.Render("Registra tu Ticket"), "")

	for i, input := range m.formInputs {
		label := m.theme.Label.Render(fmt.Sprintf("%-12s", labels[i]))
		if i == m.formFocus {
			label = m.theme.Focused.Render(fmt.Sprintf("%-12s", labels[i]))
		}
		lines = append(lines, label+input.View())
	}

	region := fmt.Sprintf("%-12s◀ %s ▶", "Región", model.Regions[m.regionIdx])
	if m.formFocus == formFocusRegion {
		region = m.theme.Focused.Render(region)
	} else {
		region = m.theme.Label.Render(region)
	}
	lines = append(lines, region)

	check := "[ ]"
	if m.consent {
		check = "[x]"
	}
	consent := fmt.Sprintf("%-12s%s Acepto los términos", "", check)
	if m.formFocus == formFocusConsent {
		consent = m.theme.Focused.Render(consent)
	} else {
		consent = m.theme.Label.Render(consent)
	}
	lines = append(lines, consent)

	if pending := m.form.Pending(); pending != nil {
		lines = append(lines, m.theme.Help.Render(fmt.Sprintf("  comprobante: %s (%s, %d KB)",
			pending.Filename, pending.ContentType, len(pending.Data)/1024)))
	}

	submit := "[ Enviar Registro ]"
	if m.submitting {
		submit = "[ Enviando... ]"
	}
	if m.formFocus == formFocusSubmit {
		submit = m.theme.Focused.Render(submit)
	}
	lines = append(lines, "", submit)

	if m.lastCreated != nil {
		lines = append(lines, "", m.theme.Subtitle.Render(
			fmt.Sprintf("Último registro: %s · %s", m.lastCreated.TicketID, m.theme.EstadoBadge(m.lastCreated.Estado))))
	}

	lines = append(lines, "", m.theme.Help.Render("tab/↑↓ campo · ←→ región · espacio acepta · enter envía · esc volver"))
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenHome
		m.clearNotice()
		return m, nil
	case "enter":
		m.clearNotice()
		return m, m.searchCmd(m.searchInput.Value())
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) viewSearch() string {
	var lines []string
	lines = append(lines, m.theme.Title.Render("Buscar Mis Tickets"), "")
	lines = append(lines, m.theme.Label.Render("DNI: ")+m.searchInput.View(), "")

	switch {
	case !m.searched:
		lines = append(lines, m.theme.Help.Render("Ingresa tu DNI para buscar"))
	case len(m.searchResults) == 0:
		lines = append(lines, m.theme.Label.Render("No hay tickets registrados con ese DNI"))
	default:
		for _, t := range m.searchResults {
			lines = append(lines, fmt.Sprintf("%s  %s  %s", t.TicketID, t.Nombre, m.theme.EstadoBadge(t.Estado)))
			if t.ComprobanteURL != "" {
				lines = append(lines, m.theme.Help.Render("  comprobante: "+m.client.ComprobanteURL(t)))
			}
		}
	}

	lines = append(lines, "", m.theme.Help.Render("enter buscar · esc volver"))
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenHome
		m.clearNotice()
		return m, nil
	case "tab", "down", "shift+tab", "up":
		m.loginFocus = 1 - m.loginFocus
		var cmd tea.Cmd
		for i := range m.loginInputs {
			if i == m.loginFocus {
				cmd = m.loginInputs[i].Focus()
			} else {
				m.loginInputs[i].Blur()
			}
		}
		return m, cmd
	case "enter":
		if m.loggingIn {
			return m, nil
		}
		m.clearNotice()
		m.loggingIn = true
		return m, m.loginCmd(m.loginInputs[0].Value(), m.loginInputs[1].Value())
	}
	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *Model) viewLogin() string {
	var lines []string
	lines = append(lines, m.theme.Title.Render("Iniciar Sesión (Admin)"), "")
	lines = append(lines, m.theme.Label.Render("Correo:     ")+m.loginInputs[0].View())
	lines = append(lines, m.theme.Label.Render("Contraseña: ")+m.loginInputs[1].View())
	if m.loggingIn {
		lines = append(lines, "", m.theme.Subtitle.Render("Ingresando..."))
	}
	lines = append(lines, "", m.theme.Help.Render("tab cambiar campo · enter ingresar · esc volver"))
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
