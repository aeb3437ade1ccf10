package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/client"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/resilience"

	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(baseURL string, token string) *client.Client {
	cb := resilience.NewCircuitBreaker("test", resilience.Config{}, client.IsTransportFailure)
	return client.New(
		&http.Client{Timeout: 2 * time.Second},
		baseURL,
		staticToken(token),
		cb,
		resilience.NewBulkhead(4),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestDo_AttachesBearerAndJSONHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected request id header")
		}
		w.Write([]byte(`{"data":[{"id":1}],"message":"ok"}`))
	}))
	defer server.Close()

	c := newClient(server.URL+"/api/", "abc")
	env, err := c.Do(context.Background(), client.Request{Path: "/products"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if env.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", env.Message)
	}

	rows, err := client.DecodeData[[]map[string]int](env)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != 1 {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestDo_NoTokenNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	if _, err := newClient(server.URL, "").Do(context.Background(), client.Request{Path: "/addresses"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDo_HeaderOverridesCannotReplaceJSONContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Tenant"); got != "loja-1" {
			t.Errorf("expected custom header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		var m map[string]string
		if err := json.Unmarshal(body, &m); err != nil || m["rua"] != "Rua A" {
			t.Errorf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":7}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{
		Method:  http.MethodPost,
		Path:    "/addresses",
		Body:    map[string]string{"rua": "Rua A"},
		Headers: map[string]string{"Content-Type": "text/plain", "X-Tenant": "loja-1"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDo_StatusFailurePassesMessageThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"CNPJ já cadastrado"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{Method: http.MethodPost, Path: "/suppliers", Body: map[string]string{}})

	var apiErr *domain.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if apiErr.Kind != domain.KindStatus || apiErr.Status != http.StatusConflict {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if apiErr.Message != "CNPJ já cadastrado" {
		t.Errorf("expected verbatim message, got %q", apiErr.Message)
	}
}

func TestDo_StatusFailureMessageVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"list message", `{"message":["nome is required","cnpj is invalid"]}`, "nome is required; cnpj is invalid"},
		{"error field", `{"error":"Token inválido"}`, "Token inválido"},
		{"plain text", `Bad Gateway`, "Bad Gateway"},
		{"empty body", ``, domain.MsgRequestFailed},
		{"no message", `{"data":null}`, domain.MsgRequestFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{Path: "/customers"})
			if domain.KindOf(err) != domain.KindStatus {
				t.Fatalf("expected status kind, got %v", err)
			}
			if got := domain.MessageOf(err); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDo_UnparsableSuccessIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	}))
	defer server.Close()

	_, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{Path: "/products"})
	if domain.KindOf(err) != domain.KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}
	if domain.MessageOf(err) != domain.MsgUnexpectedResponse {
		t.Errorf("expected generic message, got %q", domain.MessageOf(err))
	}
}

func TestDo_EmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	env, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{Path: "/products"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := client.DecodeData[[]int](env); domain.KindOf(err) != domain.KindTransport {
		t.Errorf("expected missing data to be a transport failure, got %v", err)
	}
}

func TestDo_UnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(url, "abc").Do(context.Background(), client.Request{Path: "/products"})
	if domain.KindOf(err) != domain.KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}
}

func TestDo_OpenCircuitIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newClient(url, "abc")
	for i := 0; i < 5; i++ {
		c.Do(context.Background(), client.Request{Path: "/products"})
	}

	_, err := c.Do(context.Background(), client.Request{Path: "/products"})
	if domain.KindOf(err) != domain.KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}
	if !resilience.IsOpen(err) {
		t.Errorf("expected breaker rejection, got %v", err)
	}
}

func TestDo_MultipartBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("expected multipart content type, got %q", r.Header.Get("Content-Type"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "cesta.png" || string(data) != "png-bytes" {
			t.Errorf("unexpected upload %s %q", header.Filename, data)
		}
		w.Write([]byte(`{"data":{"url":"https://cdn.example/cesta.png"}}`))
	}))
	defer server.Close()

	env, err := newClient(server.URL, "abc").Do(context.Background(), client.Request{
		Method: http.MethodPost,
		Path:   "/upload",
		Body:   &client.Multipart{FileName: "cesta.png", ContentType: "image/png", Content: []byte("png-bytes")},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	res, err := client.DecodeData[domain.UploadResult](env)
	if err != nil || res.URL != "https://cdn.example/cesta.png" {
		t.Errorf("unexpected upload result %+v (%v)", res, err)
	}
}
