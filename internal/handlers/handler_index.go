package handlers

import (
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/view"
)

// GETIndexHandler renders the application page for the current auth state.
// Authorization responses sent to the origin are handed to the callback.
func GETIndexHandler(ctx *middlewares.AppContext) {
	query := ctx.Request.URL.Query()
	if isCallbackRequest(query) {
		GETCallbackHandler(ctx)
		return
	}

	state, user := currentAuthState(ctx)

	ctx.RenderPage(view.Page{
		Auth:       state,
		User:       user,
		LoginError: loginErrorMessage(query.Get("error")),
	})
}
