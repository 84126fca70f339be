package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mchmarny/revpulse/pkg/net"
)

const (
	// ScopePrivateRepos lets the token read datasets from private repos.
	ScopePrivateRepos = "repo"

	grantType = "urn:ietf:params:oauth:grant-type:device_code"
)

var (
	deviceCodeURL = "https://github.com/login/device/code"
	accessCodeURL = "https://github.com/login/oauth/access_token"
)

type DeviceCode struct {
	// The device verification code used to verify the device.
	DeviceCode string `json:"device_code,omitempty"`
	// The code the user enters in the browser.
	UserCode string `json:"user_code,omitempty"`
	// The verification URL where users need to enter the user_code
	VerificationURL string `json:"verification_uri,omitempty"`
	// The number of seconds before the device_code and user_code expire.
	ExpiresInSec int `json:"expires_in,omitempty"`
	// The minimum number of seconds between access token requests.
	Interval int `json:"interval,omitempty"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Error       string `json:"error,omitempty"`
	Description string `json:"error_description,omitempty"`
}

// GetDeviceCode starts the GitHub device flow for clientID. An empty scope
// requests read-only access to public data.
func GetDeviceCode(ctx context.Context, clientID, scope string) (*DeviceCode, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}

	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("scope", scope)

	var dc DeviceCode
	if err := postForm(ctx, deviceCodeURL, q, &dc); err != nil {
		return nil, fmt.Errorf("failed to get device code: %w", err)
	}
	if dc.DeviceCode == "" {
		return nil, errors.New("device code is empty")
	}
	return &dc, nil
}

// GetToken exchanges an authorized device code for an access token.
func GetToken(ctx context.Context, clientID string, code *DeviceCode) (*AccessTokenResponse, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}

	if code == nil {
		return nil, errors.New("device code is nil")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(code.ExpiresInSec) * time.Second)

	q := url.Values{}
	q.Set("client_id", clientID)
	q.Set("device_code", code.DeviceCode)
	q.Set("grant_type", grantType)

	var t AccessTokenResponse
	if err := postForm(ctx, accessCodeURL, q, &t); err != nil {
		return nil, fmt.Errorf("failed to get access token: %w", err)
	}

	if t.Error != "" {
		return nil, fmt.Errorf("access token request denied: %s - %s", t.Error, t.Description)
	}

	if time.Now().UTC().After(expiresAt) {
		return nil, errors.New("access token expired")
	}

	if t.AccessToken == "" {
		return nil, errors.New("access token is empty")
	}

	return &t, nil
}

func postForm(ctx context.Context, endpoint string, form url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	client, err := net.GetHTTPClient()
	if err != nil {
		return fmt.Errorf("failed to get http client: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body := ""
		if b, err := io.ReadAll(res.Body); err == nil {
			body = string(b)
		}
		return fmt.Errorf("unexpected response: %s - %s - %s", res.Status, endpoint, body)
	}

	if err := json.NewDecoder(res.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
