// Package api implements the typed HTTP client for the raffle backend.
// Every server interaction the application performs goes through this
// package: listing and searching tickets, submitting a registration,
// updating a ticket's moderation status and logging an administrator in.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lenninsorteos/sorteo/internal/model"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests, e.g.
	// "https://sorteo.example.com/api". Required.
	BaseURL string

	// Token is an administrator token attached as a bearer credential to
	// every request when present. Public operations work without it.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to a client with
	// Timeout applied.
	HTTPClient *http.Client

	// Timeout bounds each request when HTTPClient is not supplied.
	// Defaults to 30s. A hung server therefore cannot leave the caller
	// (and its busy indicator) stuck forever.
	Timeout time.Duration

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed client for the raffle API. The same base address
// serves both API calls and comprobante image references.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// tokenMu guards token: requests run on their own goroutines while
	// login and logout update the credential from the caller's.
	tokenMu sync.RWMutex
	token   string
}

// NewClient creates a raffle API client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetToken replaces the bearer credential used for subsequent requests.
// An empty token reverts the client to unauthenticated calls.
func (client *Client) SetToken(token string) {
	client.tokenMu.Lock()
	client.token = token
	client.tokenMu.Unlock()
}

// bearerToken reads the current credential.
func (client *Client) bearerToken() string {
	client.tokenMu.RLock()
	defer client.tokenMu.RUnlock()
	return client.token
}

// BaseURL returns the configured base address.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// ListTickets fetches the full ticket collection. Admin-only on the
// server side.
func (client *Client) ListTickets(ctx context.Context) ([]model.TicketRecord, error) {
	var tickets []model.TicketRecord
	if err := client.get(ctx, "/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SearchTickets fetches the tickets registered under an exact DNI. A DNI
// with no registrations yields an empty slice and a nil error; transport
// and server failures yield an error, so callers can tell "not found"
// from "request failed".
func (client *Client) SearchTickets(ctx context.Context, dni string) ([]model.TicketRecord, error) {
	var tickets []model.TicketRecord
	if err := client.get(ctx, "/tickets/search/"+url.PathEscape(dni), &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// UpdateStatus asks the server to transition a ticket to estado.
func (client *Client) UpdateStatus(ctx context.Context, ticketID string, estado model.Estado) error {
	body := map[string]model.Estado{"estado": estado}
	path := "/tickets/" + url.PathEscape(ticketID) + "/status"
	return client.doJSON(ctx, http.MethodPut, path, body, nil)
}

// LoginResponse is the wire shape of POST /admin/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
}

// Login exchanges administrator credentials for an opaque token. A
// transport failure or a falsy success flag both mean the credentials
// were not accepted; the caller does not learn which.
func (client *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var response LoginResponse
	if err := client.doJSON(ctx, http.MethodPost, "/admin/login", body, &response); err != nil {
		return LoginResponse{}, err
	}
	return response, nil
}

// Comprobante is the proof-of-payment image attached to a registration.
type Comprobante struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateTicketRequest carries one complete registration submission.
type CreateTicketRequest struct {
	Nombre   string
	DNI      string
	WhatsApp string
	Region   string
	// ClientRef is a client-generated id correlating this submission
	// attempt across log lines and the multipart request.
	ClientRef   string
	Comprobante Comprobante
}

// CreateTicket submits a registration as a multipart request and returns
// the created record. Field-level validation is the form controller's
// job; this method only moves bytes.
func (client *Client) CreateTicket(ctx context.Context, request CreateTicketRequest) (model.TicketRecord, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"nombre":   request.Nombre,
		"dni":      request.DNI,
		"whatsapp": request.WhatsApp,
		"region":   request.Region,
	}
	if request.ClientRef != "" {
		fields["client_ref"] = request.ClientRef
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return model.TicketRecord{}, fmt.Errorf("api: encoding form field %s: %w", name, err)
		}
	}

	// CreatePart instead of CreateFormFile so the part carries the image's
	// real content type rather than application/octet-stream.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="comprobante"; filename=%q`, request.Comprobante.Filename))
	header.Set("Content-Type", request.Comprobante.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return model.TicketRecord{}, fmt.Errorf("api: encoding comprobante part: %w", err)
	}
	if _, err := part.Write(request.Comprobante.Data); err != nil {
		return model.TicketRecord{}, fmt.Errorf("api: writing comprobante: %w", err)
	}
	if err := writer.Close(); err != nil {
		return model.TicketRecord{}, fmt.Errorf("api: finalizing multipart body: %w", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+"/tickets", &buf)
	if err != nil {
		return model.TicketRecord{}, fmt.Errorf("api: creating request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", writer.FormDataContentType())

	var created model.TicketRecord
	if err := client.execute(httpRequest, &created); err != nil {
		return model.TicketRecord{}, err
	}
	return created, nil
}

// ComprobanteURL resolves a record's comprobante reference against the
// client's base address. Absolute references are returned unchanged; the
// usual relative form ("/uploads/abc.jpg") is joined to the scheme and
// host of the base URL so image retrieval always targets the service that
// stored the upload.
func (client *Client) ComprobanteURL(record model.TicketRecord) string {
	ref := record.ComprobanteURL
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base, err := url.Parse(client.baseURL)
	if err != nil {
		return ref
	}
	resolved := url.URL{Scheme: base.Scheme, Host: base.Host, Path: ref}
	return resolved.String()
}

// get executes a GET request and decodes the JSON response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.doJSON(ctx, http.MethodGet, path, nil, result)
}

// doJSON executes a request with an optional JSON body, decoding the
// response into result when result is non-nil.
func (client *Client) doJSON(ctx context.Context, method, path string, requestBody, result any) error {
	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return client.execute(request, result)
}

// execute sends the request, maps non-2xx responses to *APIError and
// decodes a 2xx body into result.
func (client *Client) execute(request *http.Request, result any) error {
	if token := client.bearerToken(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	request.Header.Set("Accept", "application/json")

	start := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("api: reading response body: %w", err)
	}

	client.logger.Debug("api call",
		"method", request.Method,
		"path", request.URL.Path,
		"status", response.StatusCode,
		"elapsed", time.Since(start),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return parseAPIError(response.StatusCode, body)
	}
	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("api: decoding response: %w", err)
		}
	}
	return nil
}
