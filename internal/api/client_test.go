package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lenninsorteos/sorteo/internal/model"
)

// newTestClient creates a Client backed by the given httptest.Server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL + "/api",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty BaseURL")
	}
}

func TestListTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.TicketRecord{
			{TicketID: "T-1", Nombre: "Ana", DNI: "12345678", Estado: model.EstadoRevision},
		})
	}))
	defer server.Close()

	tickets, err := newTestClient(t, server).ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].TicketID != "T-1" {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
}

func TestCreateTicket_Multipart(t *testing.T) {
	imageBytes := []byte("\x89PNG\r\n\x1a\nfakepayload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		for field, want := range map[string]string{
			"nombre":   "Ana Quispe",
			"dni":      "12345678",
			"whatsapp": "987654321",
			"region":   "Cusco",
		} {
			if got := r.FormValue(field); got != want {
				t.Errorf("field %s = %q, want %q", field, got, want)
			}
		}
		if r.FormValue("client_ref") == "" {
			t.Error("missing client_ref")
		}
		file, header, err := r.FormFile("comprobante")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "pago.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("comprobante content type = %q", ct)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.TicketRecord{
			TicketID: "T-9", Estado: model.EstadoRevision, FechaRegistro: time.Now().UTC(),
		})
	}))
	defer server.Close()

	created, err := newTestClient(t, server).CreateTicket(context.Background(), CreateTicketRequest{
		Nombre:    "Ana Quispe",
		DNI:       "12345678",
		WhatsApp:  "987654321",
		Region:    "Cusco",
		ClientRef: "ref-1",
		Comprobante: Comprobante{
			Filename:    "pago.png",
			ContentType: "image/png",
			Data:        imageBytes,
		},
	})
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if created.TicketID != "T-9" || created.Estado != model.EstadoRevision {
		t.Fatalf("unexpected record: %+v", created)
	}
}

func TestUpdateStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets/T-3/status" || r.Method != http.MethodPut {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["estado"] != "aprobado" {
			t.Errorf("estado = %q", body["estado"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := newTestClient(t, server).UpdateStatus(context.Background(), "T-3", model.EstadoAprobado); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestLogin_TokenAttachedToLaterRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/login":
			json.NewEncoder(w).Encode(LoginResponse{Success: true, Token: "tok-123"})
		case "/api/tickets":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q", got)
			}
			json.NewEncoder(w).Encode([]model.TicketRecord{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	response, err := client.Login(context.Background(), "admin@sorteo.pe", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !response.Success || response.Token != "tok-123" {
		t.Fatalf("unexpected response: %+v", response)
	}
	client.SetToken(response.Token)
	if _, err := client.ListTickets(context.Background()); err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
}

func TestAPIError_ServerMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "DNI ya registrado"})
	}))
	defer server.Close()

	_, err := newTestClient(t, server).SearchTickets(context.Background(), "12345678")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.UserMessage() != "DNI ya registrado" {
		t.Errorf("user message = %q", apiErr.UserMessage())
	}
}

func TestAPIError_GenericWhenBodyUnusable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>gateway error page</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).ListTickets(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.UserMessage() != http.StatusText(http.StatusBadGateway) {
		t.Errorf("user message = %q", apiErr.UserMessage())
	}
}

func TestComprobanteURL(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://sorteo.example.com/api"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	tests := []struct {
		ref  string
		want string
	}{
		{"/uploads/abc.jpg", "https://sorteo.example.com/uploads/abc.jpg"},
		{"https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		record := model.TicketRecord{ComprobanteURL: tt.ref}
		if got := client.ComprobanteURL(record); got != tt.want {
			t.Errorf("ComprobanteURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

// TestSetToken_ConcurrentWithRequests drives requests while the bearer
// credential is replaced from another goroutine, the shape the TUI
// produces when a logout lands during an in-flight refresh. Run under
// the race detector this fails if the token is not guarded.
func TestSetToken_ConcurrentWithRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.TicketRecord{})
	}))
	defer server.Close()
	client := newTestClient(t, server)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if _, err := client.ListTickets(context.Background()); err != nil {
				t.Errorf("ListTickets: %v", err)
				return
			}
		}
	}()
	for i := 0; i < 50; i++ {
		client.SetToken("tok-a")
		client.SetToken("")
	}
	<-done
}
