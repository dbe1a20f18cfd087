package handlers

import (
	"net/http"
	"secure-auth-app/internal/auth"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/middlewares"
)

func GETLoginHandler(ctx *middlewares.AppContext) {
	if ctx.SessionManager.IsUserAuthenticated(ctx) {
		ctx.Logger.Debug("User already authenticated")
		ctx.Redirect("/", http.StatusFound)
		return
	}

	redirectTo := safeRedirectPath(ctx.Config.Server.ExternalURL,
		ctx.Request.URL.Query().Get("rd"),
		ctx.Request.Header.Get("Referer"),
	)

	ctx.SessionManager.SetRedirectAfterLogin(ctx, redirectTo)

	authURL, err := ctx.OIDCProvider.StartLogin(ctx)
	if err != nil {
		ctx.Logger.Error("Failed to start login", "error", err)
		ctx.Redirect(auth.LoginErrorURL("server_error"), http.StatusFound)
		return
	}

	metrics.LoginsStarted.Inc()
	ctx.Logger.Debug("Redirecting to OIDC Provider", "url", authURL)

	ctx.Redirect(authURL, http.StatusFound)
}
