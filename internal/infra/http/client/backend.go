// Package client talks to the airbrb HTTP API on behalf of a signed-in user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"airbrb/internal/app/dto"
	"airbrb/internal/app/notifications"
)

const defaultTimeout = 3 * time.Second

var ErrNotConfigured = errors.New("client: base url not configured")

// Backend is a BookingSource backed by GET /bookings/mine. A 403 means the token no
// longer resolves to a session and is reported as notifications.ErrSessionEnded.
type Backend struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Logger  *slog.Logger
	Timeout time.Duration
}

type feedResponse struct {
	Guest []dto.Booking `json:"guest"`
	Host  []dto.Booking `json:"host"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Feed ignores userID: the server derives the caller from the bearer token.
func (b *Backend) Feed(ctx context.Context, userID string) (notifications.Feed, error) {
	var out feedResponse
	if err := b.do(ctx, http.MethodGet, "/bookings/mine", nil, &out); err != nil {
		return notifications.Feed{}, err
	}
	return notifications.Feed{
		Guest: notifications.FromDTO(out.Guest),
		Host:  notifications.FromDTO(out.Host),
	}, nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (b *Backend) Login(ctx context.Context, email, password string) (string, error) {
	var out dto.AuthResponse
	if err := b.do(ctx, http.MethodPost, "/user/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("client: login returned no token")
	}
	b.Token = out.Token
	return out.Token, nil
}

func (b *Backend) do(ctx context.Context, method, path string, body, out any) error {
	if b == nil || strings.TrimSpace(b.BaseURL) == "" {
		return ErrNotConfigured
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	endpoint := strings.TrimRight(b.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.Token != "" {
		req.Header.Set("Authorization", "Bearer "+b.Token)
	}

	resp, err := b.httpClient().Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("client: backend timeout (%s): %w", endpoint, err)
		} else {
			err = fmt.Errorf("client: backend unavailable (%s): %w", endpoint, err)
		}
		b.logError("backend request failed", path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return notifications.ErrSessionEnded
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("client: backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		b.logError("backend returned error", path, err)
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		b.logError("backend decode failed", path, err)
		return err
	}
	return nil
}

func (b *Backend) httpClient() *http.Client {
	if b.Client != nil {
		return b.Client
	}
	return http.DefaultClient
}

func (b *Backend) logError(msg, path string, err error) {
	if b.Logger != nil {
		b.Logger.Error(msg, "path", path, "error", err)
	}
}

var _ notifications.BookingSource = (*Backend)(nil)
