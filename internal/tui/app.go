// Package tui implements the interactive terminal front end: the public
// registration form and ticket search, and behind a login, the admin
// dashboard and participants table. It drives the same controllers as
// the CLI commands; no server interaction happens outside them.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lenninsorteos/sorteo/internal/api"
	"github.com/lenninsorteos/sorteo/internal/form"
	"github.com/lenninsorteos/sorteo/internal/model"
	"github.com/lenninsorteos/sorteo/internal/moderation"
	"github.com/lenninsorteos/sorteo/internal/session"
)

// screen identifies which view is active.
type screen int

const (
	screenHome screen = iota
	screenForm
	screenSearch
	screenLogin
	screenDashboard
	screenParticipants
	screenDetail
)

// Model is the bubbletea model for the whole application.
type Model struct {
	client  *api.Client
	session *session.Session
	form    *form.Controller
	view    *moderation.View
	theme   Theme

	screen screen
	width  int
	height int
	// notice is the transient status line: confirmations, warnings and
	// error messages all land here.
	notice   string
	noticeIs error

	// Registration form.
	formInputs  []textinput.Model // nombre, dni, whatsapp, comprobante path
	regionIdx   int
	consent     bool
	formFocus   int
	submitting  bool
	lastCreated *model.TicketRecord

	// Public search.
	searchInput   textinput.Model
	searchResults []model.TicketRecord
	searched      bool

	// Admin login.
	loginInputs []textinput.Model // email, password
	loginFocus  int
	loggingIn   bool

	// Participants table. visible holds the filtered rows in table
	// order so the cursor index maps back to a record.
	ticketTable table.Model
	filterInput textinput.Model
	filtering   bool
	refreshing  bool
	visible     []model.TicketRecord

	// Detail view.
	detail       *model.TicketRecord
	detailReturn screen
}

// Form field positions beyond the text inputs.
const (
	formFieldCount   = 4 // nombre, dni, whatsapp, comprobante path
	formFocusRegion  = formFieldCount
	formFocusConsent = formFieldCount + 1
	formFocusSubmit  = formFieldCount + 2
)

// New creates the TUI model over the wired controllers.
func New(client *api.Client, sess *session.Session, formController *form.Controller, view *moderation.View) *Model {
	m := &Model{
		client:  client,
		session: sess,
		form:    formController,
		view:    view,
		theme:   DefaultTheme(),
		screen:  screenHome,
	}

	placeholders := []string{"Nombre completo", "DNI (8 dígitos)", "WhatsApp (9 dígitos)", "Ruta del comprobante"}
	for _, p := range placeholders {
		input := textinput.New()
		input.Placeholder = p
		input.CharLimit = 120
		m.formInputs = append(m.formInputs, input)
	}
	m.formInputs[1].CharLimit = 8
	m.formInputs[2].CharLimit = 9

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "DNI (8 dígitos)"
	m.searchInput.CharLimit = 8

	email := textinput.New()
	email.Placeholder = "Correo"
	password := textinput.New()
	password.Placeholder = "Contraseña"
	password.EchoMode = textinput.EchoPassword
	m.loginInputs = []textinput.Model{email, password}

	m.filterInput = textinput.New()
	m.filterInput.Placeholder = "Buscar por DNI"

	m.ticketTable = table.New(
		table.WithColumns(ticketColumns(80)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	return m
}

// Run starts the program in the alternate screen.
func (m *Model) Run() error {
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ticketTable.SetColumns(ticketColumns(msg.Width))
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		created := msg.created
		m.lastCreated = &created
		m.resetFormInputs()
		m.setNotice(fmt.Sprintf("Registro exitoso: ticket %s (%s)", created.TicketID, created.Estado))
		return m, nil

	case loginDoneMsg:
		m.loggingIn = false
		if msg.err != nil {
			m.setError(fmt.Errorf("credenciales incorrectas"))
			return m, nil
		}
		m.screen = screenDashboard
		m.setNotice("Sesión iniciada")
		m.refreshing = true
		return m, m.refreshCmd()

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.syncTable()
		return m, nil

	case statusDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if msg.update.Warning != "" {
			m.setNotice("Estado actualizado (aviso: " + msg.update.Warning + ")")
		} else {
			m.setNotice("Estado actualizado")
		}
		m.syncTable()
		return m, nil

	case searchDoneMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.searched = true
		m.searchResults = msg.tickets
		return m, nil
	}

	return m, nil
}

// updateKey routes keystrokes to the active screen.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenHome:
		return m.updateHome(msg)
	case screenForm:
		return m.updateForm(msg)
	case screenSearch:
		return m.updateSearch(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenDashboard:
		return m.updateDashboard(msg)
	case screenParticipants:
		return m.updateParticipants(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenHome:
		body = m.viewHome()
	case screenForm:
		body = m.viewForm()
	case screenSearch:
		body = m.viewSearch()
	case screenLogin:
		body = m.viewLogin()
	case screenDashboard:
		body = m.viewDashboard()
	case screenParticipants:
		body = m.viewParticipants()
	case screenDetail:
		body = m.viewDetail()
	}

	header := m.theme.Title.Render("LENNIN SORTEOS") + "  " + m.theme.Subtitle.Render("Sistema de Sorteos")
	parts := []string{header, "", body}
	if m.notice != "" {
		line := m.notice
		if m.noticeIs != nil {
			line = m.theme.ErrorText.Render(line)
		} else {
			line = m.theme.StatusBar.Render(" " + line + " ")
		}
		parts = append(parts, "", line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeIs = nil
}

func (m *Model) setError(err error) {
	m.notice = err.Error()
	m.noticeIs = err
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeIs = nil
}

// updateHome handles the landing menu.
func (m *Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.clearNotice()
		m.screen = screenForm
		m.formFocus = 0
		return m, m.focusFormInput()
	case "b":
		m.clearNotice()
		m.screen = screenSearch
		m.searched = false
		m.searchResults = nil
		return m, m.searchInput.Focus()
	case "a":
		m.clearNotice()
		if m.session.Authenticated() {
			m.screen = screenDashboard
			m.refreshing = true
			return m, m.refreshCmd()
		}
		m.screen = screenLogin
		m.loginFocus = 0
		return m, m.loginInputs[0].Focus()
	}
	return m, nil
}

func (m *Model) viewHome() string {
	lines := []string{
		m.theme.Label.Render("¿Qué deseas hacer?"),
		"",
		"  r  Registrar un ticket",
		"  b  Buscar mis tickets",
		"  a  Administración",
		"",
		m.theme.Help.Render("q salir · ctrl+c salir"),
	}
	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
