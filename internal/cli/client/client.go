// Package client is the HTTP API client the operator CLI talks through.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"animehub/pkg/models"
)

// Client handles HTTP API communication
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a new API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and returns the session token
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body := models.LoginRequest{Username: username, Password: password}

	var login models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &login); err != nil {
		return nil, err
	}

	c.token = login.Token
	return &login, nil
}

// PendingContent returns the moderation queue
func (c *Client) PendingContent(ctx context.Context, limit int) ([]*models.ModerationVersion, error) {
	path := fmt.Sprintf("/api/v1/admin/content?status=pending&limit=%d", limit)

	var page models.PaginatedResponse[*models.ModerationVersion]
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Resolve approves or rejects a pending content version
func (c *Client) Resolve(ctx context.Context, versionID string, decision models.VersionStatus) error {
	path := fmt.Sprintf("/api/v1/admin/content/%s/resolve", versionID)
	body := map[string]string{"decision": string(decision)}
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// do performs a request and decodes the data field of the response envelope
// into target
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Error   string          `json:"error"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
	}

	if !envelope.Success {
		if envelope.Error != "" {
			return fmt.Errorf("%s", envelope.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
