package handlers

import (
	"errors"
	"net/http"
	"secure-auth-app/internal/auth"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/middlewares"
)

const CallbackPath = "/callback"

func GETCallbackHandler(ctx *middlewares.AppContext) {
	idToken, user, err := ctx.OIDCProvider.HandleCallback(ctx)
	if err != nil {
		metrics.LoginsCompleted.WithLabelValues(metrics.LoginResultFailure).Inc()

		redirectTo := auth.LoginErrorURL("server_error")
		var oidcErr *auth.OIDCError
		if errors.As(err, &oidcErr) {
			redirectTo = oidcErr.RedirectURL
		}

		ctx.Logger.Warn("Failed to handle OIDC callback", "error", err)
		ctx.Redirect(redirectTo, http.StatusFound)
		return
	}

	if err := ctx.SessionManager.CreateSessionWithTokenExpiry(ctx, idToken, user); err != nil {
		metrics.LoginsCompleted.WithLabelValues(metrics.LoginResultFailure).Inc()
		ctx.Logger.Error("Failed to create session", "error", err)
		ctx.Redirect(auth.LoginErrorURL("server_error"), http.StatusFound)
		return
	}

	metrics.LoginsCompleted.WithLabelValues(metrics.LoginResultSuccess).Inc()
	ctx.Logger.Info("User successfully authenticated",
		"user_id", user.Sub,
		"email", RedactEmail(user.Email),
	)

	redirectTo := ctx.SessionManager.GetRedirectAfterLogin(ctx)
	if redirectTo == "" {
		redirectTo = "/"
	}

	ctx.Redirect(redirectTo, http.StatusFound)
}
