package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// userInfoURL is Google's OpenID Connect userinfo endpoint. It returns the
// same sub/email/name shape as tokeninfo, so both sign-in paths feed the
// identical GoogleIdentity into the service layer.
const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider wraps golang.org/x/oauth2 for the Google Authorization
// Code flow. This is the server-side alternative to the client-side
// id_token exchange (POST /api/auth/google/verify):
//
//  1. The server redirects the user to Google's authorization endpoint.
//  2. The user approves on Google.
//  3. Google redirects back to our CallbackURL with a short-lived "code".
//  4. The server exchanges the code for an access token (server-to-server,
//     using the ClientSecret — the token never touches the browser).
//  5. The server calls the userinfo endpoint for the user's profile.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given credentials.
//
// ClientID and ClientSecret come from a registered OAuth client at
// https://console.cloud.google.com/apis/credentials. callbackURL must match
// one of the configured "Authorized redirect URIs" exactly.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
//
// The state is a random string stored in a cookie before redirecting; the
// callback handler verifies the returned state matches, which stops CSRF
// attacks that trick a browser into completing someone else's flow.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the OAuth flow: trades the authorization code for a
// verified Google identity.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("auth: decoding userinfo response: %w", err)
	}

	if identity.Sub == "" {
		return nil, fmt.Errorf("auth: Google returned an identity without a subject")
	}

	// The userinfo document has no "aud" claim — the token we used to fetch
	// it was already minted for our client ID, so the audience is implicit.
	identity.Audience = p.config.ClientID

	return &identity, nil
}
