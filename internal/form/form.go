// Package form implements the registration form controller: it owns the
// mutable registrant input (nombre, dni, whatsapp, region, comprobante,
// consent) and validates everything locally before any network call, so a
// malformed submission never costs a server round-trip.
package form

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lenninsorteos/sorteo/internal/api"
	"github.com/lenninsorteos/sorteo/internal/model"
)

// ErrBusy is returned when Submit is called while a previous submission
// is still in flight.
var ErrBusy = errors.New("submission already in progress")

// ValidationError is a local precondition failure. Message is the
// user-facing text; no network call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Fields holds the registrant's textual input. Validation is deferred to
// Submit; setters only store values.
type Fields struct {
	Nombre   string `validate:"required"`
	DNI      string `validate:"required,len=8,number"`
	WhatsApp string `validate:"required,len=9,number"`
	Region   string `validate:"required,region"`
}

// PendingUpload pairs a selected comprobante image with its preview. It
// is ephemeral: discarded after a successful submission or replaced on
// reselection.
type PendingUpload struct {
	Filename    string
	ContentType string
	Data        []byte
	// Preview is a base64 data URL of the image, derived at selection
	// time for display.
	Preview string
}

// Controller is the form controller. All methods are safe for use from a
// single interactive owner plus the goroutine completing a submission.
type Controller struct {
	client        *api.Client
	logger        *slog.Logger
	maxImageBytes int64
	allowedTypes  map[string]bool
	timeout       time.Duration

	mu      sync.Mutex
	busy    bool
	fields  Fields
	consent bool
	pending *PendingUpload
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The region enumeration contains multi-word names, so a custom rule
	// beats an oneof tag.
	_ = v.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return model.ValidRegion(fl.Field().String())
	})
	return v
}

// Options configures a Controller.
type Options struct {
	MaxImageBytes     int64
	AllowedImageTypes []string
	// SubmitTimeout bounds the create call so a hung server cannot leave
	// the busy flag set forever.
	SubmitTimeout time.Duration
	Logger        *slog.Logger
}

// New creates a form controller submitting through the given API client.
func New(client *api.Client, options Options) *Controller {
	if options.MaxImageBytes <= 0 {
		options.MaxImageBytes = 5 << 20
	}
	if len(options.AllowedImageTypes) == 0 {
		options.AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if options.SubmitTimeout <= 0 {
		options.SubmitTimeout = 30 * time.Second
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	allowed := make(map[string]bool, len(options.AllowedImageTypes))
	for _, t := range options.AllowedImageTypes {
		allowed[t] = true
	}
	return &Controller{
		client:        client,
		logger:        options.Logger,
		maxImageBytes: options.MaxImageBytes,
		allowedTypes:  allowed,
		timeout:       options.SubmitTimeout,
	}
}

// SetField updates one registrant field by name. Unknown names are an
// error; values are stored as-is, validation happens at Submit.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch name {
	case "nombre":
		c.fields.Nombre = value
	case "dni":
		c.fields.DNI = value
	case "whatsapp":
		c.fields.WhatsApp = value
	case "region":
		c.fields.Region = value
	default:
		return fmt.Errorf("form: unknown field %q", name)
	}
	return nil
}

// SetConsent records whether the registrant accepted the terms.
func (c *Controller) SetConsent(accepted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consent = accepted
}

// Fields returns a snapshot of the current input.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Consent reports whether the terms checkbox is set.
func (c *Controller) Consent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consent
}

// Pending returns the currently selected upload, nil when none.
func (c *Controller) Pending() *PendingUpload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// SelectProofImage accepts a comprobante image. The content type is
// sniffed from the bytes, not trusted from the filename. A file outside
// JPEG/PNG/WEBP or over the size cap is rejected with a user-facing
// message and no state change; on success any previous selection is
// replaced and a data-URL preview is derived.
func (c *Controller) SelectProofImage(filename string, data []byte) error {
	if int64(len(data)) > c.maxImageBytes {
		return &ValidationError{Message: fmt.Sprintf("La imagen supera el máximo de %d MB", c.maxImageBytes>>20)}
	}
	if len(data) == 0 {
		return &ValidationError{Message: "El archivo está vacío"}
	}
	contentType := sniffContentType(data)
	if !c.allowedTypes[contentType] {
		return &ValidationError{Message: "Solo se aceptan imágenes JPG, PNG o WEBP"}
	}

	preview := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &PendingUpload{
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Data:        data,
		Preview:     preview,
	}
	return nil
}

// SelectProofImageFile reads path from disk and selects it.
func (c *Controller) SelectProofImageFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("No se pudo leer el archivo: %v", err)}
	}
	return c.SelectProofImage(path, data)
}

// Submit validates every field locally and, only when all checks pass,
// sends the multipart create request. On success all local input and the
// pending upload are reset and the created record is returned. On server
// or network failure local state is left intact so the user may retry,
// and the returned error carries the server's message when available.
func (c *Controller) Submit(ctx context.Context) (model.TicketRecord, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return model.TicketRecord{}, ErrBusy
	}
	fields := c.fields
	consent := c.consent
	pending := c.pending
	if err := validateSubmission(fields, consent, pending); err != nil {
		c.mu.Unlock()
		return model.TicketRecord{}, err
	}
	c.busy = true
	c.mu.Unlock()

	// The busy flag is cleared on every exit path.
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	clientRef := uuid.NewString()
	c.logger.Info("submitting registration", "dni", fields.DNI, "region", fields.Region, "client_ref", clientRef)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.client.CreateTicket(ctx, api.CreateTicketRequest{
		Nombre:    fields.Nombre,
		DNI:       fields.DNI,
		WhatsApp:  fields.WhatsApp,
		Region:    fields.Region,
		ClientRef: clientRef,
		Comprobante: api.Comprobante{
			Filename:    pending.Filename,
			ContentType: pending.ContentType,
			Data:        pending.Data,
		},
	})
	if err != nil {
		c.logger.Warn("registration failed", "client_ref", clientRef, "error", err)
		return model.TicketRecord{}, fmt.Errorf("error al enviar: %s", userMessage(err))
	}

	c.mu.Lock()
	c.fields = Fields{}
	c.consent = false
	c.pending = nil
	c.mu.Unlock()

	c.logger.Info("registration created", "ticket_id", created.TicketID, "client_ref", clientRef)
	return created, nil
}

// validateSubmission enforces the submit preconditions. Presence is
// checked first so the user sees "complete the form" before any format
// complaint.
func validateSubmission(fields Fields, consent bool, pending *PendingUpload) error {
	if fields.Nombre == "" || fields.DNI == "" || fields.WhatsApp == "" || fields.Region == "" || pending == nil || !consent {
		return &ValidationError{Message: "Completa todos los campos"}
	}
	if err := validate.Struct(fields); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			switch fieldErrors[0].Field() {
			case "DNI":
				return &ValidationError{Message: "DNI inválido"}
			case "WhatsApp":
				return &ValidationError{Message: "WhatsApp inválido"}
			case "Region":
				return &ValidationError{Message: "Región inválida"}
			}
		}
		return &ValidationError{Message: "Datos inválidos"}
	}
	return nil
}

// userMessage extracts the text to show the user from a submission
// error: the server's own words when it sent any, generic otherwise.
func userMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "no se pudo contactar al servidor"
}

// sniffContentType detects the image type from the first bytes, the same
// way the ingestion side classifies uploads.
func sniffContentType(data []byte) string {
	limit := len(data)
	if limit > 512 {
		limit = 512
	}
	return http.DetectContentType(data[:limit])
}
