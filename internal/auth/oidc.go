package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/models"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// NewRealOIDCProvider runs discovery against the issuer and returns a provider ready
// to start logins.
func NewRealOIDCProvider(ctx context.Context, cfg config.OIDCConfig) (middlewares.OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	var discovery struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&discovery); err != nil {
		return nil, fmt.Errorf("failed to read OIDC discovery document: %w", err)
	}

	logoutURL := cfg.LogoutURL
	if logoutURL == "" {
		logoutURL = discovery.EndSessionEndpoint
	}

	return newRealOIDCProvider(provider, cfg, logoutURL), nil
}

func newRealOIDCProvider(provider *oidc.Provider, cfg config.OIDCConfig, logoutURL string) *RealOIDCProvider {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       cfg.Scopes,
		RedirectURL:  cfg.RedirectURI,
	}

	return &RealOIDCProvider{
		provider:     provider,
		oauth2Config: oauth2Config,
		logoutURL:    logoutURL,
	}
}

type RealOIDCProvider struct {
	provider     *oidc.Provider
	oauth2Config *oauth2.Config
	logoutURL    string
}

func generateRandString(bytes int) string {
	if bytes <= 0 {
		bytes = 32
	}

	b := make([]byte, bytes)
	_, _ = rand.Read(b)

	return base64.RawURLEncoding.EncodeToString(b)
}

// StartLogin stores the state, nonce and PKCE verifier for this attempt in the
// session and returns the provider authorization url.
func (r *RealOIDCProvider) StartLogin(ctx *middlewares.AppContext) (string, error) {
	state := generateRandString(32)
	nonce := generateRandString(32)
	codeVerifier := oauth2.GenerateVerifier()

	ctx.SessionManager.SetOauthNonce(ctx, nonce)
	ctx.SessionManager.SetOauthState(ctx, state)
	ctx.SessionManager.SetOauthCodeVerifier(ctx, codeVerifier)

	authURL := r.oauth2Config.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(codeVerifier),
	)

	return authURL, nil
}

// HandleCallback finishes the authorization code flow for the current request.
// Every failure is an *OIDCError carrying the page the browser should land on.
func (r *RealOIDCProvider) HandleCallback(ctx *middlewares.AppContext) (*oidc.IDToken, *models.User, error) {
	query := ctx.Request.URL.Query()

	if errorParam := query.Get("error"); errorParam != "" {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL(errorParam),
			Message:     fmt.Sprintf("provider returned error %q: %s", errorParam, query.Get("error_description")),
		}
	}

	storedState := ctx.SessionManager.GetOauthState(ctx)
	if storedState == "" {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_request"),
			Message:     "no oauth state found in session",
		}
	}

	if query.Get("state") != storedState {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_request"),
			Message:     "invalid state parameter",
		}
	}

	ctx.SessionManager.ClearOauthState(ctx)

	code := query.Get("code")
	if code == "" {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_request"),
			Message:     "no authorization code received",
		}
	}

	verifierCode := ctx.SessionManager.GetOauthCodeVerifier(ctx)
	ctx.SessionManager.ClearOauthCodeVerifier(ctx)

	token, err := r.oauth2Config.Exchange(ctx.Request.Context(), code, oauth2.VerifierOption(verifierCode))
	if err != nil {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_grant"),
			Message:     fmt.Sprintf("failed to exchange code for token: %v", err),
		}
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_token"),
			Message:     "no id_token found in oauth2 token",
		}
	}

	verifier := r.provider.Verifier(&oidc.Config{ClientID: r.oauth2Config.ClientID})

	idToken, err := verifier.Verify(ctx.Request.Context(), rawIDToken)
	if err != nil {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("invalid_token"),
			Message:     fmt.Sprintf("failed to verify ID Token: %v", err),
		}
	}

	user, err := extractUserClaimsFromToken(idToken)
	if err != nil {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("server_error"),
			Message:     fmt.Sprintf("failed to extract user from ID Token: %v", err),
		}
	}

	expectedNonce := ctx.SessionManager.GetOauthNonce(ctx)
	ctx.SessionManager.ClearOauthNonce(ctx)
	if expectedNonce == "" || idToken.Nonce != expectedNonce {
		return nil, nil, &OIDCError{
			RedirectURL: LoginErrorURL("server_error"),
			Message:     "nonce in ID Token is invalid",
		}
	}

	enhancedUser, err := r.fetchUserInfo(ctx, token, user)
	if err != nil {
		ctx.Logger.Warn("Failed to fetch user info, using ID token data only", "error", err)
		enhancedUser = user
	}
	enhancedUser.LastLoggedIn = time.Now()

	return idToken, enhancedUser, nil
}

// LogoutURL returns where the browser goes to end the provider session. Without an
// end session endpoint the browser is sent straight back to returnTo.
func (r *RealOIDCProvider) LogoutURL(returnTo string) string {
	if r.logoutURL == "" {
		return returnTo
	}

	u, err := url.Parse(r.logoutURL)
	if err != nil {
		return returnTo
	}

	q := u.Query()
	q.Set("client_id", r.oauth2Config.ClientID)
	q.Set("post_logout_redirect_uri", returnTo)
	u.RawQuery = q.Encode()

	return u.String()
}

// fetchUserInfo retrieves the profile claims from the UserInfo endpoint, ID token
// values are kept where the endpoint has none.
func (r *RealOIDCProvider) fetchUserInfo(ctx *middlewares.AppContext, token *oauth2.Token, baseUser *models.User) (*models.User, error) {
	userInfo, err := r.provider.UserInfo(ctx.Request.Context(), oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	if userInfo.Subject != baseUser.Sub {
		return nil, fmt.Errorf("user info subject %q does not match ID token subject", userInfo.Subject)
	}

	var claims profileClaims
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse user info claims: %w", err)
	}

	return &models.User{
		Sub:      baseUser.Sub,
		Iss:      baseUser.Iss,
		Name:     getPreferredValue(claims.Name, baseUser.Name),
		Nickname: getPreferredValue(claims.Nickname, claims.PreferredUsername, baseUser.Nickname),
		Email:    getPreferredValue(claims.Email, baseUser.Email),
		Picture:  getPreferredValue(claims.Picture, baseUser.Picture),
	}, nil
}

type profileClaims struct {
	Sub               string `json:"sub"`
	Iss               string `json:"iss"`
	Name              string `json:"name"`
	Nickname          string `json:"nickname"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	Picture           string `json:"picture"`
}

func extractUserClaimsFromToken(idToken *oidc.IDToken) (*models.User, error) {
	var claims profileClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	return &models.User{
		Sub:      idToken.Subject,
		Iss:      idToken.Issuer,
		Name:     claims.Name,
		Nickname: getPreferredValue(claims.Nickname, claims.PreferredUsername),
		Email:    claims.Email,
		Picture:  claims.Picture,
	}, nil
}

// getPreferredValue returns the first non-empty string from the provided values
func getPreferredValue(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// LoginErrorURL is the page a failed login lands on, the login prompt with an error code.
func LoginErrorURL(code string) string {
	return "/?error=" + url.QueryEscape(code)
}
