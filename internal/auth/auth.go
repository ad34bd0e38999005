// Package auth provides sessions for the recordings client: a static header
// built from a pre-issued token, or one obtained by logging in as a user.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/five82/recfetch/internal/recordings"
)

const loginPath = "/authenticate_user"

// Static is a session with a fixed base URL and header.
type Static struct {
	URL    string
	Header http.Header
}

// BaseURL implements recordings.Session.
func (s Static) BaseURL() string { return s.URL }

// AuthHeader implements recordings.Session. The returned header is a copy.
func (s Static) AuthHeader() http.Header { return s.Header.Clone() }

// Token builds a session that sends token verbatim as the Authorization value.
// The API issues tokens already prefixed with "JWT ".
func Token(baseURL, token string) Static {
	return Static{
		URL:    strings.TrimSpace(baseURL),
		Header: http.Header{"Authorization": {strings.TrimSpace(token)}},
	}
}

// Login authenticates username against the API and returns a session carrying
// the issued token. A nil client uses recordings.NewHTTPClient.
func Login(ctx context.Context, client *http.Client, baseURL, username, password string) (Static, error) {
	if strings.TrimSpace(username) == "" {
		return Static{}, fmt.Errorf("username required")
	}
	if client == nil {
		client = recordings.NewHTTPClient()
	}
	endpoint, err := recordings.ResolveURL(baseURL, loginPath)
	if err != nil {
		return Static{}, err
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Static{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Static{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Static{}, fmt.Errorf("read response: %w", err)
	}

	var payload struct {
		Token   string          `json:"token"`
		Message json.RawMessage `json:"message"`
	}
	decodeErr := json.Unmarshal(body, &payload)

	switch {
	case resp.StatusCode == http.StatusOK:
		if decodeErr != nil {
			return Static{}, fmt.Errorf("decode response: %w", decodeErr)
		}
		if payload.Token == "" {
			return Static{}, fmt.Errorf("login response has no token")
		}
		return Token(baseURL, payload.Token), nil
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return Static{}, fmt.Errorf("login failed (%d): %s", resp.StatusCode, message(payload.Message))
	default:
		return Static{}, fmt.Errorf("login returned status %d", resp.StatusCode)
	}
}

func message(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "no message"
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}
