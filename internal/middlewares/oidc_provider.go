package middlewares

import (
	"secure-auth-app/internal/models"

	"github.com/coreos/go-oidc/v3/oidc"
)

//go:generate mockgen -source=oidc_provider.go -destination=../mocks/oidc.go -package=mocks

// OIDCProvider is the identity provider client. It owns the redirect based login
// and logout flows, the application only decides when to start them.
type OIDCProvider interface {
	StartLogin(ctx *AppContext) (string, error)
	HandleCallback(ctx *AppContext) (*oidc.IDToken, *models.User, error)
	LogoutURL(returnTo string) string
}
