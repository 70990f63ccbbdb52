// Package apiclient is the Go client for the IngrediSense API. It owns the
// session: outgoing requests carry the cached access token, and a 401 is
// transparently recovered once per request by rotating the token pair
// through the refresh endpoint and retrying.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	httpClient       *http.Client
	baseURL          string
	tokens           TokenStore
	onSessionExpired func()
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionExpiredHandler registers the callback invoked after a failed
// refresh, once both cached tokens have been cleared (the browser analog is
// redirecting to the landing page).
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
}

// User is the sanitized user view returned by the server.
type User struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Avatar          string    `json:"avatar"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type AuthData struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type HealthProfile struct {
	Allergies        []string          `json:"allergies"`
	Conditions       []string          `json:"conditions"`
	Diets            []string          `json:"diets"`
	Goals            []string          `json:"goals"`
	Stats            map[string]string `json:"stats"`
	ProfileCompleted bool              `json:"profileCompleted"`
}

// Register creates an account and caches the returned token pair.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthData, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var data AuthData
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", body, &data); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	c.tokens.SetTokens(data.AccessToken, data.RefreshToken)
	return &data, nil
}

// Login authenticates and caches the returned token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthData, error) {
	body := map[string]string{"email": email, "password": password}
	var data AuthData
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	c.tokens.SetTokens(data.AccessToken, data.RefreshToken)
	return &data, nil
}

// Logout notifies the server (a stateless no-op there) and always clears
// the local session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.tokens.Clear()
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var data struct {
		User User `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &data); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &data.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, email, avatar string) (*User, error) {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if email != "" {
		body["email"] = email
	}
	if avatar != "" {
		body["avatar"] = avatar
	}

	var data struct {
		User User `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodPut, "/api/auth/profile", body, &data); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &data.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"currentPassword": currentPassword, "newPassword": newPassword}
	if err := c.doRequest(ctx, http.MethodPut, "/api/auth/change-password", body, nil); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// DeleteAccount removes the account and clears the local session on
// success.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	if err := c.doRequest(ctx, http.MethodDelete, "/api/auth/account", body, nil); err != nil {
		return fmt.Errorf("delete account request failed: %w", err)
	}
	c.tokens.Clear()
	return nil
}

func (c *Client) GetHealthProfile(ctx context.Context) (*HealthProfile, error) {
	var profile HealthProfile
	if err := c.doRequest(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("get health profile request failed: %w", err)
	}
	return &profile, nil
}

func (c *Client) UpdateHealthProfile(ctx context.Context, profile HealthProfile) (*HealthProfile, error) {
	var updated HealthProfile
	if err := c.doRequest(ctx, http.MethodPut, "/api/profile", profile, &updated); err != nil {
		return nil, fmt.Errorf("update health profile request failed: %w", err)
	}
	return &updated, nil
}

// doRequest performs one logical request. On a single 401 it attempts one
// silent refresh and one retry; any further failure is returned to the
// caller. The retry budget is local to this call, so concurrent requests
// do not share it.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
	}

	accessToken, _ := c.tokens.Tokens()
	env, err := c.send(ctx, method, path, payload, accessToken)
	if err == nil {
		return decodeData(env, result)
	}

	apiErr, ok := asAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		return err
	}

	// Exactly one refresh attempt, then exactly one retry.
	newAccess, refreshErr := c.refresh(ctx)
	if refreshErr != nil {
		c.tokens.Clear()
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return refreshErr
	}

	env, err = c.send(ctx, method, path, payload, newAccess)
	if err != nil {
		return err
	}
	return decodeData(env, result)
}

// refresh exchanges the cached refresh token for a new pair and caches it.
func (c *Client) refresh(ctx context.Context) (string, error) {
	_, refreshToken := c.tokens.Tokens()
	if refreshToken == "" {
		return "", fmt.Errorf("no refresh token cached")
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", err
	}

	env, err := c.send(ctx, http.MethodPost, "/api/auth/refresh-token", payload, "")
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	var pair TokenPair
	if err := decodeData(env, &pair); err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}
	if pair.AccessToken == "" {
		return "", fmt.Errorf("token refresh failed: empty token pair")
	}

	c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
	return pair.AccessToken, nil
}

// send performs a single HTTP round trip and decodes the response envelope.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, accessToken string) (*envelope, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

func decodeData(env *envelope, result interface{}) error {
	if result == nil || env == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
