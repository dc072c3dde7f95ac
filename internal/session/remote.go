package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// RemoteProvider delegates to a GoTrue-compatible auth API and holds the
// session it returns.
type RemoteProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu      sync.RWMutex
	current *AuthResponse

	listeners listeners
}

func NewRemoteProvider(baseURL, apiKey string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    int64         `json:"expires_at"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *ProviderUser `json:"user"`

	// signup without a session returns the bare user
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (p providerError) text() string {
	for _, s := range []string{p.ErrorDescription, p.Msg, p.Message, p.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (p *RemoteProvider) SignInWithPassword(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var tr tokenResponse
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	if err := p.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &tr); err != nil {
		return nil, err
	}

	resp := tr.authResponse()
	p.setCurrent(resp)
	p.listeners.emit(Event{Type: EventSignedIn, Auth: resp})
	return resp, nil
}

func (p *RemoteProvider) SignUp(ctx context.Context, creds SignupCredentials, emailRedirectTo string) (*AuthResponse, error) {
	path := "/auth/v1/signup"
	if emailRedirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(emailRedirectTo)
	}
	body := map[string]any{
		"email":    creds.Email,
		"password": creds.Password,
		"data": UserMetadata{
			FirstName: creds.FirstName,
			LastName:  creds.LastName,
			Phone:     creds.Phone,
		},
	}

	var tr tokenResponse
	if err := p.do(ctx, http.MethodPost, path, "", body, &tr); err != nil {
		return nil, err
	}

	resp := tr.authResponse()
	if resp.Session != nil {
		p.setCurrent(resp)
		p.listeners.emit(Event{Type: EventSignedIn, Auth: resp})
	}
	return resp, nil
}

// GetSession verifies the held access token against the provider. A
// rejected token drops the session and emits SIGNED_OUT.
func (p *RemoteProvider) GetSession(ctx context.Context) (*AuthResponse, error) {
	cur := p.Current()
	if cur == nil || cur.Session == nil {
		return nil, nil
	}

	var user ProviderUser
	err := p.do(ctx, http.MethodGet, "/auth/v1/user", cur.Session.AccessToken, nil, &user)
	if err != nil {
		if isUnauthorized(err) {
			p.setCurrent(nil)
			p.listeners.emit(Event{Type: EventSignedOut})
			return nil, nil
		}
		return nil, err
	}

	resp := &AuthResponse{User: user, Session: cur.Session}
	p.setCurrent(resp)
	return resp, nil
}

func (p *RemoteProvider) SignOut(ctx context.Context) error {
	cur := p.Current()
	if cur != nil && cur.Session != nil {
		if err := p.do(ctx, http.MethodPost, "/auth/v1/logout", cur.Session.AccessToken, nil, nil); err != nil && !isUnauthorized(err) {
			return err
		}
	}
	p.setCurrent(nil)
	p.listeners.emit(Event{Type: EventSignedOut})
	return nil
}

func (p *RemoteProvider) OnAuthStateChange(fn func(Event)) func() {
	return p.listeners.add(fn)
}

func (p *RemoteProvider) Current() *AuthResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *RemoteProvider) setCurrent(resp *AuthResponse) {
	p.mu.Lock()
	p.current = resp
	p.mu.Unlock()
}

func (tr tokenResponse) authResponse() *AuthResponse {
	resp := &AuthResponse{}
	if tr.User != nil {
		resp.User = *tr.User
	} else {
		resp.User = ProviderUser{ID: tr.ID, Email: tr.Email, UserMetadata: tr.UserMetadata}
	}
	if tr.AccessToken != "" {
		exp := tr.ExpiresAt
		if exp == 0 && tr.ExpiresIn > 0 {
			exp = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second).Unix()
		}
		resp.Session = &Session{
			UserID:       resp.User.ID,
			AccessToken:  tr.AccessToken,
			RefreshToken: tr.RefreshToken,
			ExpiresAt:    exp,
		}
	}
	return resp
}

type statusError struct {
	StatusCode int
	Message    string
}

func (e *statusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("auth provider responded with status: %d", e.StatusCode)
}

func isUnauthorized(err error) bool {
	se, ok := err.(*statusError)
	return ok && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden)
}

func (p *RemoteProvider) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe providerError
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&pe)
		if resp.StatusCode == http.StatusBadRequest && pe.Error == "invalid_grant" {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, pe.text())
		}
		if strings.Contains(strings.ToLower(pe.text()), "already registered") {
			return fmt.Errorf("%w: %s", ErrUserAlreadyExist, pe.text())
		}
		return &statusError{StatusCode: resp.StatusCode, Message: pe.text()}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
