// Package model contains simple struct definitions shared across packages.
package model

import (
	"strconv"
	"time"
)

// Estado describes the moderation lifecycle of a ticket. Declaring it via
// "type Estado string" gives the status values a named type with string as
// the underlying representation, which is safer than passing plain strings.
type Estado string

const (
	// EstadoRevision is the initial state of every submitted ticket.
	EstadoRevision Estado = "revision"
	// EstadoAprobado marks a ticket an administrator accepted.
	EstadoAprobado Estado = "aprobado"
	// EstadoRechazado marks a ticket an administrator rejected.
	EstadoRechazado Estado = "rechazado"
)

// Valid reports whether e is one of the three known states.
func (e Estado) Valid() bool {
	switch e {
	case EstadoRevision, EstadoAprobado, EstadoRechazado:
		return true
	}
	return false
}

// Terminal reports whether e is a final state. The server is the authority
// on whether a terminal ticket may be transitioned again; Terminal only
// tells callers that a record has already been resolved once.
func (e Estado) Terminal() bool {
	return e == EstadoAprobado || e == EstadoRechazado
}

// TicketRecord holds one registrant's raffle submission as the server
// returns it. Struct tags such as `json:"ticket_id"` keep the Go field
// names idiomatic while matching the wire format.
type TicketRecord struct {
	TicketID string `json:"ticket_id"`
	Nombre   string `json:"nombre"`
	DNI      string `json:"dni"`
	WhatsApp string `json:"whatsapp"`
	Region   string `json:"region"`
	// MontoDetectado is the payment amount the server extracted from the
	// comprobante. It is optional: a nil pointer means the server could not
	// detect one and the UI renders "N/A".
	MontoDetectado *float64 `json:"monto_detectado,omitempty"`
	Estado         Estado   `json:"estado"`
	// ComprobanteURL is a server-assigned reference to the stored
	// proof-of-payment image, relative to the API base address.
	ComprobanteURL string    `json:"comprobante_url"`
	FechaRegistro  time.Time `json:"fecha_registro"`
}

// MontoDisplay renders the detected amount, substituting the literal token
// "N/A" when the server supplied none.
func (t TicketRecord) MontoDisplay() string {
	if t.MontoDetectado == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*t.MontoDetectado, 'f', 2, 64)
}

// Stats aggregates a ticket collection by estado.
type Stats struct {
	Total      int
	Aprobados  int
	Rechazados int
	Revision   int
}
