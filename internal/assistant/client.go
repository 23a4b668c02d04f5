// Package assistant is the sole network boundary of the widget: it POSTs a
// prompt with its page context to the assistant endpoint and parses the
// reply.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"dale-assistant/internal/domain"
)

const (
	DefaultBaseURL      = "http://localhost:8000"
	DefaultEndpointPath = "/api/ai/dale/ask/"

	HeaderPageContext = "X-Page-Context"
	HeaderRequestID   = "X-Request-Id"
)

// TokenSource yields the bearer token, or false when none is stored.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// errorBody is the optional JSON payload of a non-2xx response.
type errorBody struct {
	Detail any `json:"detail"`
}

// Client asks the assistant endpoint. It performs no retries and sets no
// timeout of its own.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithEndpointPath(path string) Option {
	return func(c *Client) {
		c.path = strings.TrimSpace(path)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client that reads its bearer token from tokens before
// every request.
func New(tokens TokenSource, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("assistant: token source must not be nil")
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		path:       DefaultEndpointPath,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string {
	return endpointURL(c.baseURL, c.path)
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}

func endpointURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if path == "" {
		path = DefaultEndpointPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// Ask sends prompt with its context and history and returns the parsed
// reply. Failures are always *Error. A nil history is sent as [].
func (c *Client) Ask(ctx context.Context, prompt string, dctx domain.ContextDescriptor, history []domain.ChatMessage) (domain.AssistantReply, error) {
	token, ok := c.tokens.Token(ctx)
	if !ok {
		return domain.AssistantReply{}, newError(ErrorUnauthenticated, 0, "", nil)
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}

	body, err := json.Marshal(domain.AssistantRequest{
		Prompt:  prompt,
		Context: dctx,
		History: history,
	})
	if err != nil {
		return domain.AssistantReply{}, newError(ErrorRequestFailed, 0, "", fmt.Errorf("assistant: marshal request: %w", err))
	}

	url := c.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.AssistantReply{}, newError(ErrorRequestFailed, 0, "", fmt.Errorf("assistant: create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderPageContext, dctx.Page)
	req.Header.Set(HeaderRequestID, requestID)

	log := c.logger.With("request_id", requestID, "page", dctx.Page, "section", dctx.Extras.Section)
	log.Debug("assistant request", "url", url)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		log.Warn("assistant request failed", "err", err)
		return domain.AssistantReply{}, newError(ErrorRequestFailed, 0, "", fmt.Errorf("assistant: request failed: %w", err))
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		detail := parseDetail(buf)
		log.Warn("assistant returned error status", "status", res.StatusCode, "detail", detail)
		return domain.AssistantReply{}, newError(ErrorRequestFailed, res.StatusCode, detail, nil)
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return domain.AssistantReply{}, newError(ErrorRequestFailed, res.StatusCode, "", fmt.Errorf("assistant: read response body: %w", err))
	}
	var reply domain.AssistantReply
	if err := json.Unmarshal(buf, &reply); err != nil {
		log.Warn("assistant returned malformed body", "err", err)
		return domain.AssistantReply{}, newError(ErrorRequestFailed, res.StatusCode, "", fmt.Errorf("assistant: decode response: %w", err))
	}
	log.Debug("assistant replied", "status", res.StatusCode)
	return reply, nil
}

// maxBodyBytes bounds both success and error bodies.
const maxBodyBytes = 1 << 20

// parseDetail extracts a string detail; anything unparseable reads as
// empty.
func parseDetail(buf []byte) string {
	var eb errorBody
	if err := json.Unmarshal(buf, &eb); err != nil {
		return ""
	}
	s, _ := eb.Detail.(string)
	return s
}
