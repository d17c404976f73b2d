// Package auth implements the server-side half of the OAuth login flow:
// exchanging one-time codes, validating tokens and resolving identities.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tastebook/v1/internal/infrastructure/config"
)

// Credentials is the result of a successful code exchange. Subject is the
// provider's stable account ID, taken from the ID token.
type Credentials struct {
	AccessToken string
	IDToken     string
	Subject     string
}

// TokenInfo is the provider's introspection response for an access token
type TokenInfo struct {
	UserID    string `json:"user_id"`
	IssuedTo  string `json:"issued_to"`
	ExpiresIn int    `json:"expires_in"`
	Error     string `json:"error"`
}

// UserInfo is the provider's profile response
type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client talks to the identity provider's token endpoints
type Client struct {
	cfg        config.AuthConfig
	httpClient *http.Client
}

// NewClient creates a provider client from the auth configuration
func NewClient(cfg config.AuthConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Exchange trades a one-time authorization code for credentials
func (c *Client) Exchange(ctx context.Context, code string) (*Credentials, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"redirect_uri":  {c.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		IDToken     string `json:"id_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Error != "" {
		return nil, fmt.Errorf("token endpoint error: %s", body.Error)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	subject, err := subjectFromIDToken(body.IDToken)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		AccessToken: body.AccessToken,
		IDToken:     body.IDToken,
		Subject:     subject,
	}, nil
}

// TokenInfo introspects an access token. A provider-reported error comes
// back in the Error field, not as a Go error.
func (c *Client) TokenInfo(ctx context.Context, accessToken string) (*TokenInfo, error) {
	endpoint := c.cfg.TokenInfoURL + "?access_token=" + url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// UserInfo fetches the profile for an access token
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	endpoint := c.cfg.UserInfoURL + "?access_token=" + url.QueryEscape(accessToken) + "&alt=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Revoke invalidates an access token with the provider
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	endpoint := c.cfg.RevokeURL + "?token=" + url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// ClientID returns the configured OAuth client ID
func (c *Client) ClientID() string {
	return c.cfg.ClientID
}

// subjectFromIDToken extracts the sub claim without verifying the
// signature. The token arrived over TLS directly from the provider's
// token endpoint, which is the trust anchor here.
func subjectFromIDToken(idToken string) (string, error) {
	if idToken == "" {
		return "", fmt.Errorf("token endpoint returned no ID token")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return "", fmt.Errorf("failed to parse ID token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("ID token has no subject")
	}
	return sub, nil
}
