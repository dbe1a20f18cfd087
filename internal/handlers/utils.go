package handlers

import (
	"net/url"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/models"
	"secure-auth-app/internal/view"
	"strings"
)

// RedactEmail is used to redact emails (mostly for logs)
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}

	localRunes := []rune(parts[0])
	domain := parts[1]

	if len(localRunes) <= 2 {
		return strings.Repeat("*", len(localRunes)) + "@" + domain
	}

	first := string(localRunes[0])
	last := string(localRunes[len(localRunes)-1])
	middle := strings.Repeat("*", len(localRunes)-2)

	return first + middle + last + "@" + domain
}

// currentAuthState reads the auth state of the request from the session. A session
// flagged authenticated without a user record is reported as loading.
func currentAuthState(ctx *middlewares.AppContext) (view.AuthState, *models.User) {
	if !ctx.SessionManager.IsUserAuthenticated(ctx) {
		return view.AuthState{}, nil
	}

	user, ok := ctx.SessionManager.GetUser(ctx)
	if !ok {
		return view.AuthState{IsAuthenticated: true, IsLoading: true}, nil
	}

	return view.AuthState{IsAuthenticated: true}, user
}

// isCallbackRequest reports whether query is an authorization response. The
// callback url defaults to the application origin, so "/" receives these too.
func isCallbackRequest(query url.Values) bool {
	if query.Get("state") == "" {
		return false
	}
	return query.Get("code") != "" || query.Get("error") != ""
}

var loginErrorMessages = map[string]string{
	"access_denied":  "Access was denied. Please try again.",
	"login_required": "Your session with the identity provider has ended. Please log in again.",
}

const defaultLoginErrorMessage = "Login failed. Please try again."

func loginErrorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := loginErrorMessages[code]; ok {
		return msg
	}
	return defaultLoginErrorMessage
}

// safeRedirectPath picks where to send the browser after login. Only paths on the
// application's own origin are accepted, and never the login flow or an error page.
func safeRedirectPath(externalURL string, candidates ...string) string {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}

		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}

		if u.IsAbs() || u.Host != "" {
			origin, err := url.Parse(externalURL)
			if err != nil || u.Scheme != origin.Scheme || u.Host != origin.Host {
				continue
			}
		} else if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
			continue
		}

		if u.Path == "" {
			u.Path = "/"
		}

		if u.Path == view.LoginPath || u.Path == view.LogoutPath || u.Path == CallbackPath || u.Query().Has("error") {
			return "/"
		}

		target := u.Path
		if u.RawQuery != "" {
			target += "?" + u.RawQuery
		}
		return target
	}

	return "/"
}
