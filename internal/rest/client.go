// Package rest implements the authenticated HTTP transport against the
// hub's local API: snapshot reads and sparse-body PATCH commands.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// SnapshotKind names one of the hub's three read endpoints.
type SnapshotKind string

const (
	SnapshotDomain    SnapshotKind = "domain"
	SnapshotNetwork   SnapshotKind = "network"
	SnapshotSchedules SnapshotKind = "schedules"
)

const (
	secretHeader   = "SECRET"
	contentType    = "application/json;charset=UTF-8"
	defaultTimeout = 15 * time.Second
)

// Client talks to a single hub. It holds no hub state; it only moves JSON.
type Client struct {
	host       string
	secret     string
	httpClient *http.Client
}

// NewClient creates a client for the hub at host. A zero timeout selects the
// hub's documented 15 second limit.
func NewClient(host, secret string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Client{
		host:   host,
		secret: secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Host returns the hub address this client targets.
func (c *Client) Host() string { return c.host }

func (c *Client) url(path string) string {
	return fmt.Sprintf("http://%s/data/v2/%s", c.host, path)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set(secretHeader, c.secret)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrConnectivity, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrAuthentication
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &BackendError{StatusCode: resp.StatusCode, Body: string(payload)}
	}
	return payload, nil
}

// GetSnapshot fetches one of the hub's three snapshot trees and decodes it.
func (c *Client) GetSnapshot(ctx context.Context, kind SnapshotKind) (map[string]interface{}, error) {
	payload, err := c.do(ctx, http.MethodGet, string(kind)+"/", nil)
	if err != nil {
		return nil, err
	}
	var snapshot map[string]interface{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decoding %s snapshot: %v", ErrConnectivity, kind, err)
	}
	log.Debug().Str("kind", string(kind)).Int("bytes", len(payload)).Msg("Fetched snapshot")
	return snapshot, nil
}

// GetSnapshotRaw fetches a snapshot without decoding it. The CLI uses this
// to dump hub state verbatim.
func (c *Client) GetSnapshotRaw(ctx context.Context, kind SnapshotKind) ([]byte, error) {
	return c.do(ctx, http.MethodGet, string(kind)+"/", nil)
}

// SendCommand PATCHes a sparse body against a domain path such as "Room/3".
// The hub merges the body into its state; omitted fields are untouched.
func (c *Client) SendCommand(ctx context.Context, path string, body interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding command body: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPatch, "domain/"+path, encoded); err != nil {
		return err
	}
	log.Debug().Str("path", path).RawJSON("body", encoded).Msg("Command accepted")
	return nil
}

// SendSchedule PATCHes schedule day data against a schedule type and id.
func (c *Client) SendSchedule(ctx context.Context, scheduleType string, id int, body interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding schedule body: %w", err)
	}
	path := fmt.Sprintf("schedules/%s/%d", scheduleType, id)
	if _, err := c.do(ctx, http.MethodPatch, path, encoded); err != nil {
		return err
	}
	log.Debug().Str("type", scheduleType).Int("id", id).Msg("Schedule accepted")
	return nil
}
