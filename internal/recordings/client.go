package recordings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/five82/recfetch/internal/log"
)

// Session supplies the API root and the authentication header. Implementations
// are expected to hand out a valid header on every call.
type Session interface {
	BaseURL() string
	AuthHeader() http.Header
}

// Client talks to the recordings HTTP API. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	session   Session
	http      *http.Client
	userAgent string
	chunkSize int
	logger    zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

const (
	defaultUserAgent = "recfetch/0.1"
	recordingsPath   = "/api/v1/recordings"
	signedURLPath    = "/api/v1/signedUrl"
	maxErrorBody     = 64 * 1024

	fileTokenField = "downloadFileJWT"
	rawTokenField  = "downloadRawJWT"
)

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithChunkSize sets the maximum chunk size of download streams.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New builds a Client for session.
func New(session Session, opts ...Option) (*Client, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if _, err := parseBaseURL(session.BaseURL()); err != nil {
		return nil, err
	}
	c := &Client{
		session:   session,
		http:      NewHTTPClient(),
		userAgent: defaultUserAgent,
		chunkSize: DefaultChunkSize,
		logger:    log.WithComponent("recordings"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query lists recording rows matching q, in server order.
func (c *Client) Query(ctx context.Context, q Query) ([]json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	rel := &url.URL{Path: recordingsPath, RawQuery: values.Encode()}
	resp, err := c.get(ctx, "query", rel, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		var payload struct {
			Rows []json.RawMessage `json:"rows"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return payload.Rows, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("read rejection: %w", err)
		}
		return nil, &RequestRejectedError{StatusCode: resp.StatusCode, Message: rejectionMessage(body)}
	case resp.StatusCode >= 300:
		return nil, statusError(resp, rel)
	}
	// Other 2xx answers carry no rows.
	return nil, nil
}

// Download fetches the processed media of a recording.
func (c *Client) Download(ctx context.Context, id RecordingID) (*Stream, error) {
	return c.download(ctx, id, fileTokenField)
}

// DownloadRaw fetches the original media of a recording.
func (c *Client) DownloadRaw(ctx context.Context, id RecordingID) (*Stream, error) {
	return c.download(ctx, id, rawTokenField)
}

func (c *Client) download(ctx context.Context, id RecordingID, field string) (*Stream, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(string(id)) == "" {
		return nil, fmt.Errorf("recording id required")
	}
	rel := &url.URL{
		Path:    recordingsPath + "/" + string(id),
		RawPath: recordingsPath + "/" + url.PathEscape(string(id)),
	}
	resp, err := c.get(ctx, "recording", rel, true)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, rel)
	}
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	var token string
	if raw, ok := payload[field]; ok {
		_ = json.Unmarshal(raw, &token)
	}
	if token == "" {
		return nil, fmt.Errorf("recording %s: %w (%s)", id, ErrMissingToken, field)
	}

	kind := "file"
	if field == rawTokenField {
		kind = "raw"
	}
	return newStream(kind, c.chunkSize, func() (*http.Response, error) {
		return c.signed(ctx, token)
	}), nil
}

// signed exchanges token for the byte stream. The token is the credential, so
// the session header is not sent.
func (c *Client) signed(ctx context.Context, token string) (*http.Response, error) {
	values := url.Values{}
	values.Set("jwt", token)
	rel := &url.URL{Path: signedURLPath, RawQuery: values.Encode()}
	resp, err := c.get(ctx, "signed_url", rel, false)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(resp, rel)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, rel *url.URL, authed bool) (*http.Response, error) {
	base, err := parseBaseURL(c.session.BaseURL())
	if err != nil {
		return nil, err
	}
	reqURL := base.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if authed {
		for name, values := range c.session.AuthHeader() {
			for _, v := range values {
				req.Header.Add(name, v)
			}
		}
	}

	logger := log.FromContext(ctx, c.logger)
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiRequests.WithLabelValues(endpoint, "error").Inc()
		logger.Debug().Err(err).Str("endpoint", endpoint).Msg("request failed")
		return nil, fmt.Errorf("execute request: %w", err)
	}
	apiRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	logger.Debug().
		Str("endpoint", endpoint).
		Str("path", rel.Path).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(started).Milliseconds()).
		Msg("api request")
	return resp, nil
}

// statusError drains a little of the body so the connection can be reused.
// The query string is left out of the URL since it may carry a token.
func statusError(resp *http.Response, rel *url.URL) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, URL: rel.Path}
}

// NewHTTPClient returns the client used when none is supplied. Its transport
// is traced with otelhttp.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// ResolveURL joins the absolute path p onto the API root named by base. Only
// the scheme and host of base are kept; a missing scheme means http.
func ResolveURL(base, p string) (string, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return "", err
	}
	return u.ResolveReference(&url.URL{Path: p}).String(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
