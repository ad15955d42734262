package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrInvalidToken means the identity service rejected the bearer token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials means an email/password pair did not resolve.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// Client talks to the external identity service (a GoTrue-style auth API).
// The service owns accounts and sessions; this backend only resolves bearer
// tokens and relays access tokens back to callers.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// Resolve exchanges a bearer token for the identity it belongs to.
func (c *Client) Resolve(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, unexpectedStatus(resp)
	}

	var body struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName string `json:"full_name"`
		} `json:"user_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ID == "" {
		return nil, ErrInvalidToken
	}

	return &User{ID: body.ID, Email: body.Email, Name: body.UserMetadata.FullName}, nil
}

// SignUp creates an account. The session is nil when the identity service
// requires email confirmation before issuing one.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*User, *Session, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": name},
	}

	resp, err := c.post(ctx, "/auth/v1/signup", payload)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, serviceError(resp)
	}

	return decodeAuthResponse(resp.Body)
}

// SignIn exchanges email/password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, *Session, error) {
	payload := map[string]string{"email": email, "password": password}

	resp, err := c.post(ctx, "/auth/v1/token?grant_type=password", payload)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return nil, nil, ErrInvalidCredentials
	default:
		return nil, nil, unexpectedStatus(resp)
	}

	user, session, err := decodeAuthResponse(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrInvalidCredentials
	}
	return user, session, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	return c.client.Do(req)
}

// decodeAuthResponse handles both shapes the identity service responds with:
// a session object embedding the user, or a bare user when no session was
// issued (signup pending email confirmation).
func decodeAuthResponse(r io.Reader) (*User, *Session, error) {
	var body struct {
		AccessToken  string `json:"access_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		User         *User  `json:"user"`
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			FullName string `json:"full_name"`
		} `json:"user_metadata"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, nil, err
	}

	if body.AccessToken != "" {
		session := &Session{
			AccessToken: body.AccessToken,
			TokenType:   body.TokenType,
			ExpiresIn:   body.ExpiresIn,
		}
		return body.User, session, nil
	}

	user := &User{ID: body.ID, Email: body.Email, Name: body.UserMetadata.FullName}
	return user, nil, nil
}

// serviceError surfaces the identity service's own message when it sent one.
func serviceError(resp *http.Response) error {
	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Msg != "" {
			return errors.New(body.Msg)
		}
		if body.Message != "" {
			return errors.New(body.Message)
		}
	}
	return unexpectedStatus(resp)
}

func unexpectedStatus(resp *http.Response) error {
	return fmt.Errorf("identity service returned status %d", resp.StatusCode)
}
