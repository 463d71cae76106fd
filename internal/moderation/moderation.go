// Package moderation implements the administrator's view over the ticket
// collection: refreshing it from the server, filtering and aggregating it
// locally, and requesting status transitions.
//
// The collection is replaced wholesale on every successful refresh and is
// never mutated optimistically: a status change only becomes visible once
// the server accepted it and a refresh succeeded, so the display can
// never show a transition the server rejected.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/lenninsorteos/sorteo/internal/api"
	"github.com/lenninsorteos/sorteo/internal/model"
	"github.com/lenninsorteos/sorteo/internal/session"
)

var dniExactRE = regexp.MustCompile(`^[0-9]{8}$`)

// TerminalPolicy decides what SetStatus does when the target ticket is
// already aprobado or rechazado. The server remains the authority on
// whether to accept the transition; the policy only controls whether the
// client even asks.
type TerminalPolicy int

const (
	// PolicyWarn forwards the request but reports a warning to the caller.
	PolicyWarn TerminalPolicy = iota
	// PolicyReject refuses locally without a network call.
	PolicyReject
	// PolicyAllow forwards the request silently.
	PolicyAllow
)

// ParseTerminalPolicy converts the configuration string form.
func ParseTerminalPolicy(s string) (TerminalPolicy, error) {
	switch s {
	case "warn", "":
		return PolicyWarn, nil
	case "reject":
		return PolicyReject, nil
	case "allow":
		return PolicyAllow, nil
	}
	return PolicyWarn, fmt.Errorf("moderation: unknown terminal policy %q", s)
}

// View owns the in-memory ticket collection. An RWMutex guards it because
// the TUI completes refreshes asynchronously while the render path reads.
type View struct {
	client  *api.Client
	session *session.Session
	logger  *slog.Logger
	policy  TerminalPolicy

	mu      sync.RWMutex
	tickets []model.TicketRecord
	// issued/applied implement the refresh sequence: each Refresh takes
	// the next issued number and a response is applied only if no newer
	// response landed first, so overlapping refreshes cannot regress the
	// collection to older data.
	issued  uint64
	applied uint64
}

// NewView creates a moderation view for an authenticated session.
func NewView(client *api.Client, sess *session.Session, policy TerminalPolicy, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{client: client, session: sess, policy: policy, logger: logger}
}

// Refresh fetches the full ticket collection and replaces the local one.
// Only callable while authenticated. On failure the prior collection is
// left in place. A response superseded by a newer completed refresh is
// discarded.
func (v *View) Refresh(ctx context.Context) error {
	if !v.session.Authenticated() {
		return session.ErrNotAuthenticated
	}

	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	tickets, err := v.client.ListTickets(ctx)
	if err != nil {
		v.logger.Warn("ticket refresh failed", "seq", seq, "error", err)
		return fmt.Errorf("refreshing tickets: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq < v.applied {
		v.logger.Debug("stale refresh discarded", "seq", seq, "applied", v.applied)
		return nil
	}
	v.applied = seq
	v.tickets = tickets
	v.logger.Info("tickets refreshed", "count", len(tickets), "seq", seq)
	return nil
}

// Tickets returns a copy of the current collection.
func (v *View) Tickets() []model.TicketRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]model.TicketRecord, len(v.tickets))
	copy(out, v.tickets)
	return out
}

// FilterByDNI returns the records whose DNI contains the given substring.
// An empty substring is the identity filter. The result is a fresh slice;
// the stored collection is never mutated.
func (v *View) FilterByDNI(substring string) []model.TicketRecord {
	return FilterByDNI(v.Tickets(), substring)
}

// FilterByDNI is the pure projection behind View.FilterByDNI, usable on
// any collection.
func FilterByDNI(tickets []model.TicketRecord, substring string) []model.TicketRecord {
	if substring == "" {
		return tickets
	}
	var out []model.TicketRecord
	for _, t := range tickets {
		if strings.Contains(t.DNI, substring) {
			out = append(out, t)
		}
	}
	return out
}

// Stats classifies the current collection by estado.
func (v *View) Stats() model.Stats {
	return ComputeStats(v.Tickets())
}

// ComputeStats counts tickets per estado in a single pass. Only exact
// matches are bucketed, so a record with an unrecognized estado counts
// toward Total but no bucket.
func ComputeStats(tickets []model.TicketRecord) model.Stats {
	stats := model.Stats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Estado {
		case model.EstadoAprobado:
			stats.Aprobados++
		case model.EstadoRechazado:
			stats.Rechazados++
		case model.EstadoRevision:
			stats.Revision++
		}
	}
	return stats
}

// StatusUpdate reports the outcome of a successful SetStatus. Warning is
// non-empty when the record was already terminal and the policy is warn.
type StatusUpdate struct {
	Warning string
}

// SetStatus requests a transition to aprobado or rechazado for the given
// ticket. On success the collection is refreshed; on any failure it is
// left untouched.
func (v *View) SetStatus(ctx context.Context, ticketID string, estado model.Estado) (StatusUpdate, error) {
	if !v.session.Authenticated() {
		return StatusUpdate{}, session.ErrNotAuthenticated
	}
	if estado != model.EstadoAprobado && estado != model.EstadoRechazado {
		return StatusUpdate{}, fmt.Errorf("moderation: %q is not a permitted transition target", estado)
	}

	var update StatusUpdate
	if current, ok := v.find(ticketID); ok && current.Estado.Terminal() {
		switch v.policy {
		case PolicyReject:
			return StatusUpdate{}, fmt.Errorf("moderation: ticket %s is already %s", ticketID, current.Estado)
		case PolicyWarn:
			update.Warning = fmt.Sprintf("ticket %s ya estaba %s", ticketID, current.Estado)
			v.logger.Warn("re-resolving terminal ticket", "ticket_id", ticketID, "current", current.Estado, "requested", estado)
		}
	}

	if err := v.client.UpdateStatus(ctx, ticketID, estado); err != nil {
		v.logger.Warn("status update failed", "ticket_id", ticketID, "estado", estado, "error", err)
		return StatusUpdate{}, fmt.Errorf("updating status: %w", err)
	}
	v.logger.Info("status updated", "ticket_id", ticketID, "estado", estado)

	if err := v.Refresh(ctx); err != nil {
		// The server already applied the change; the stale display is the
		// only casualty.
		return update, fmt.Errorf("status updated but refresh failed: %w", err)
	}
	return update, nil
}

// SearchByDNIExact serves the public "find my tickets" flow. The DNI is
// validated locally first; a malformed one aborts without a network call.
// The returned error distinguishes a failed request from a DNI with no
// registrations, which yields an empty slice and nil error.
func (v *View) SearchByDNIExact(ctx context.Context, dni string) ([]model.TicketRecord, error) {
	if !dniExactRE.MatchString(dni) {
		return nil, fmt.Errorf("moderation: DNI must be exactly 8 digits")
	}
	tickets, err := v.client.SearchTickets(ctx, dni)
	if err != nil {
		v.logger.Warn("ticket search failed", "dni", dni, "error", err)
		return nil, fmt.Errorf("searching tickets: %w", err)
	}
	return tickets, nil
}

// find looks a ticket up in the current collection.
func (v *View) find(ticketID string) (model.TicketRecord, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, t := range v.tickets {
		if t.TicketID == ticketID {
			return t, true
		}
	}
	return model.TicketRecord{}, false
}
