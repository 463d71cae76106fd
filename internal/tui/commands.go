package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lenninsorteos/sorteo/internal/model"
	"github.com/lenninsorteos/sorteo/internal/moderation"
)

// Network calls run as tea.Cmds so the UI stays responsive while a
// request is pending; completion is delivered back through the message
// loop. Each controller call is already bounded by the client timeout.

type submitDoneMsg struct {
	created model.TicketRecord
	err     error
}

type loginDoneMsg struct {
	err error
}

type refreshDoneMsg struct {
	err error
}

type statusDoneMsg struct {
	update moderation.StatusUpdate
	err    error
}

type searchDoneMsg struct {
	tickets []model.TicketRecord
	err     error
}

func (m *Model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		created, err := m.form.Submit(context.Background())
		return submitDoneMsg{created: created, err: err}
	}
}

func (m *Model) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.session.Login(context.Background(), email, password)}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.view.Refresh(context.Background())}
	}
}

func (m *Model) setStatusCmd(ticketID string, estado model.Estado) tea.Cmd {
	return func() tea.Msg {
		update, err := m.view.SetStatus(context.Background(), ticketID, estado)
		return statusDoneMsg{update: update, err: err}
	}
}

func (m *Model) searchCmd(dni string) tea.Cmd {
	return func() tea.Msg {
		tickets, err := m.view.SearchByDNIExact(context.Background(), dni)
		return searchDoneMsg{tickets: tickets, err: err}
	}
}
