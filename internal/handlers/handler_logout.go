package handlers

import (
	"net/http"
	"secure-auth-app/internal/metrics"
	"secure-auth-app/internal/middlewares"
)

// POSTLogoutHandler ends the local session and sends the browser to the identity
// provider to end its session there, returning to the application origin.
func POSTLogoutHandler(ctx *middlewares.AppContext) {
	logger := ctx.Logger

	if !ctx.SessionManager.IsUserAuthenticated(ctx) {
		logger.Debug("Logout requested without a session")
		ctx.Redirect("/", http.StatusSeeOther)
		return
	}

	user, _ := ctx.SessionManager.GetUser(ctx)

	if err := ctx.SessionManager.Logout(ctx); err != nil {
		logger.Error("Failed to logout user", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	metrics.Logouts.Inc()
	if user != nil {
		logger.Info("User logged out", "user_id", user.Sub)
	}

	ctx.Redirect(ctx.OIDCProvider.LogoutURL(ctx.Config.Server.ExternalURL), http.StatusSeeOther)
}
