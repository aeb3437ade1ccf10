// Package client is the single authenticated request pipeline to the
// inventory backend. Every outbound call goes through Client.Do, which
// attaches the bearer token, reads the full body, and turns any failure into
// a *domain.Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/domain"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/observability"
	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

// TokenSource exposes the current auth token. Implemented by *session.Session.
type TokenSource interface {
	Token() string
}

// Request describes one backend call. Method defaults to GET.
type Request struct {
	Method  string
	Path    string
	Body    any // JSON-serializable value or *Multipart
	Headers map[string]string
}

// Multipart is a binary form payload with a single file field.
type Multipart struct {
	FieldName   string // defaults to "file"
	FileName    string
	ContentType string
	Content     []byte
}

// Envelope is the {data, message?} shape every backend response follows.
// Raw keeps the whole body for endpoints that answer outside the envelope.
type Envelope struct {
	Data    json.RawMessage
	Message string
	Raw     json.RawMessage
}

// Client wraps HTTP calls to the inventory API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// New creates a client. baseURL is resolved once by the caller
// (see config.ResolveBaseURL) and never re-read per call.
func New(httpClient *http.Client, baseURL string, tokens TokenSource, cb *gobreaker.CircuitBreaker, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		cb:         cb,
		bulkhead:   bulkhead,
		metrics:    metrics,
		logger:     logger,
	}
}

// BaseURL returns the resolved base address.
func (c *Client) BaseURL() string { return c.baseURL }

// IsTransportFailure is the breaker's failure predicate: only transport
// failures mean the backend is unhealthy.
func IsTransportFailure(err error) bool {
	return domain.KindOf(err) == domain.KindTransport
}

// Do executes req. Calls are independent: no queuing or coalescing beyond
// the bulkhead's concurrency cap, and no retries.
func (c *Client) Do(ctx context.Context, req Request) (*Envelope, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	op := method + " " + req.Path

	ctx, span := tracer.Start(ctx, "Client.Do")
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("api.path", req.Path))

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(op, time.Since(start))
	}()

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, c.fail(span, domain.NewTransport(err))
	}
	defer c.bulkhead.Release()

	result, err := c.cb.Execute(func() (any, error) {
		return c.do(ctx, method, req)
	})
	if err != nil {
		if resilience.IsOpen(err) {
			err = domain.NewTransport(err)
		}
		return nil, c.fail(span, err)
	}
	return result.(*Envelope), nil
}

func (c *Client) fail(span trace.Span, err error) error {
	kind := domain.KindOf(err)
	c.metrics.IncrRequestError(kind.String())
	span.RecordError(err)
	span.SetStatus(codes.Error, kind.String())
	return err
}

// do runs one attempt: build, send, read all, parse, normalize.
func (c *Client) do(ctx context.Context, method string, req Request) (*Envelope, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, domain.NewTransport(fmt.Errorf("encode request body: %w", err))
	}

	url := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		c.logger.Error("api: failed to create request",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, domain.NewTransport(err)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if tok := c.tokens.Token(); tok != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("api: request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, domain.NewTransport(err)
	}
	defer resp.Body.Close()

	// Read as text first: success statuses may carry an empty body.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("api: failed to read response body",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, domain.NewTransport(err)
	}

	parsed, parseErr := parseBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("api: non-2xx response",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", parsed.message),
		)
		return nil, domain.NewStatus(resp.StatusCode, parsed.message)
	}

	if parseErr != nil {
		c.logger.Warn("api: unparsable success body",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
			zap.Error(parseErr),
		)
		return nil, domain.NewTransport(parseErr)
	}

	c.logger.Debug("api: request OK",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
	)

	return &Envelope{Data: parsed.data, Message: parsed.message, Raw: raw}, nil
}

// DecodeData unmarshals the envelope's data into T.
func DecodeData[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return out, domain.NewTransport(errors.New("response has no data"))
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, domain.NewTransport(fmt.Errorf("decode data: %w", err))
	}
	return out, nil
}

func encodeBody(b any) (io.Reader, string, error) {
	switch v := b.(type) {
	case nil:
		return nil, "application/json", nil
	case *Multipart:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		field := v.FieldName
		if field == "" {
			field = "file"
		}
		ct := v.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, v.FileName))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(v.Content); err != nil {
			return nil, "", err
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

type parsedBody struct {
	data    json.RawMessage
	message string
}

// parseBody decodes the envelope. When the body is not JSON the raw text
// becomes the message, so failures still surface something readable.
func parseBody(raw []byte) (parsedBody, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return parsedBody{}, nil
	}

	if trimmed[0] != '{' {
		if json.Valid(trimmed) {
			// bare JSON value outside the envelope, e.g. a list
			return parsedBody{data: json.RawMessage(trimmed)}, nil
		}
		return parsedBody{message: string(trimmed)}, fmt.Errorf("response is not JSON")
	}

	var wire struct {
		Data    json.RawMessage `json:"data"`
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return parsedBody{message: string(trimmed)}, fmt.Errorf("decode envelope: %w", err)
	}

	msg := messageText(wire.Message)
	if msg == "" {
		msg = messageText(wire.Error)
	}
	return parsedBody{data: wire.Data, message: msg}, nil
}

// messageText accepts a string or a list of strings.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
