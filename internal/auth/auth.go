// Package auth provides app-only Spotify authentication using the client
// credentials flow.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when SPOTIFY_ID or SPOTIFY_SECRET is not set.
var ErrMissingCredentials = errors.New("missing SPOTIFY_ID or SPOTIFY_SECRET")

// Authenticator issues app tokens. Tokens are refreshed automatically by the
// returned clients.
type Authenticator struct {
	config *clientcredentials.Config
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenURL overrides the Spotify token endpoint.
func WithTokenURL(url string) Option {
	return func(a *Authenticator) {
		a.config.TokenURL = url
	}
}

// New creates an Authenticator. Returns ErrMissingCredentials if either value
// is empty.
func New(clientID, clientSecret string, opts ...Option) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	a := &Authenticator{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// HTTPClient returns an HTTP client that attaches a valid app token to every
// request.
func (a *Authenticator) HTTPClient(ctx context.Context) *http.Client {
	return a.config.Client(ctx)
}

// Client returns an authenticated Spotify client.
func (a *Authenticator) Client(ctx context.Context, opts ...spotify.ClientOption) *spotify.Client {
	opts = append([]spotify.ClientOption{spotify.WithRetry(true)}, opts...)
	return spotify.New(a.HTTPClient(ctx), opts...)
}
