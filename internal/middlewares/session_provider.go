package middlewares

import (
	"net/http"
	"secure-auth-app/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
)

//go:generate mockgen -source=session_provider.go -destination=../mocks/session.go -package=mocks

type SessionProvider interface {
	SetUser(ctx *AppContext, user *models.User)
	GetUser(ctx *AppContext) (user *models.User, ok bool)
	SetAuthenticated(ctx *AppContext, authenticated bool)
	IsAuthenticated(ctx *AppContext) bool
	SetRedirectAfterLogin(ctx *AppContext, redirectAfterLogin string)
	GetRedirectAfterLogin(ctx *AppContext) string
	SetOauthState(ctx *AppContext, state string)
	GetOauthState(ctx *AppContext) string
	ClearOauthState(ctx *AppContext)
	SetOauthNonce(ctx *AppContext, nonce string)
	GetOauthNonce(ctx *AppContext) string
	ClearOauthNonce(ctx *AppContext)
	SetOauthCodeVerifier(ctx *AppContext, verifier string)
	GetOauthCodeVerifier(ctx *AppContext) string
	ClearOauthCodeVerifier(ctx *AppContext)
	SetRenderFailed(ctx *AppContext)
	HasRenderFailed(ctx *AppContext) bool
	CreateSessionWithTokenExpiry(ctx *AppContext, idToken *oidc.IDToken, user *models.User) error
	IsUserAuthenticated(ctx *AppContext) bool
	Logout(ctx *AppContext) error

	LoadAndSave(next http.Handler) http.Handler
}
