package catalog

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials authenticate requests to the catalog. All fields are optional.
// Client credentials take precedence over a static token.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewHTTPClient returns the http.Client the catalog Client should reuse for
// the life of the process. Without credentials it is a plain client with the
// given timeout; otherwise requests carry an OAuth2 bearer token.
func NewHTTPClient(ctx context.Context, creds Credentials, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	var hc *http.Client
	switch {
	case creds.ClientID != "" && creds.ClientSecret != "" && creds.TokenURL != "":
		cfg := &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
		}
		hc = cfg.Client(ctx)
	case creds.Token != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}))
	default:
		return base
	}
	hc.Timeout = timeout
	return hc
}
