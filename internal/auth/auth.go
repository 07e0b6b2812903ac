// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth loads the OAuth client configuration and the cached user
// token, and produces the authenticated HTTP client the remote conversion
// client is built on. Token refresh is handled by the oauth2 token source;
// the refreshed token persists on disk between runs.
package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
)

// Provider produces authenticated HTTP clients from on-disk OAuth material.
type Provider struct {
	config    *oauth2.Config
	tokenPath string

	// Prompt and Input drive the out-of-band authorization flow when no
	// cached token exists. They default to stderr and stdin.
	Prompt io.Writer
	Input  io.Reader
}

// NewProvider reads the OAuth client configuration JSON at credentialsPath.
// tokenPath is where the user token is cached between runs.
func NewProvider(credentialsPath, tokenPath string) (*Provider, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("reading client configuration %s: %w", credentialsPath, err)
	}

	config, err := google.ConfigFromJSON(data, driveapi.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client configuration: %w", err)
	}

	return &Provider{
		config:    config,
		tokenPath: tokenPath,
		Prompt:    os.Stderr,
		Input:     os.Stdin,
	}, nil
}

// Client returns an HTTP client carrying the user credential. base, when
// non-nil, becomes the transport under the oauth2 layer so retry policy
// composes with authentication. When no cached token exists the user is
// walked through the authorization flow and the token is saved.
func (p *Provider) Client(ctx context.Context, base http.RoundTripper) (*http.Client, error) {
	tok, err := p.cachedToken()
	if err != nil {
		tok, err = p.authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := p.saveToken(tok); err != nil {
			return nil, err
		}
	}

	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	}
	return p.config.Client(ctx, tok), nil
}

// cachedToken reads the token cached at tokenPath.
func (p *Provider) cachedToken() (*oauth2.Token, error) {
	f, err := os.Open(p.tokenPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("parsing cached token %s: %w", p.tokenPath, err)
	}
	return tok, nil
}

// authorize runs the out-of-band flow: print the consent URL, read the
// authorization code, exchange it for a token.
func (p *Provider) authorize(ctx context.Context) (*oauth2.Token, error) {
	url := p.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(p.Prompt, "Open the following link in your browser, then paste the authorization code:\n%v\n> ", url)

	var code string
	scanner := bufio.NewScanner(p.Input)
	if scanner.Scan() {
		code = scanner.Text()
	}
	if code == "" {
		return nil, fmt.Errorf("no authorization code provided")
	}

	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

// saveToken caches the token for subsequent runs.
func (p *Provider) saveToken(tok *oauth2.Token) error {
	f, err := os.OpenFile(p.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("caching token to %s: %w", p.tokenPath, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}
