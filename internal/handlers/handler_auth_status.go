package handlers

import (
	"net/http"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/models"
)

type AuthStatusResponse struct {
	Authenticated bool         `json:"authenticated"`
	Loading       bool         `json:"loading"`
	User          *models.User `json:"user,omitempty"`
}

func GETAuthStatusHandler(ctx *middlewares.AppContext) {
	state, user := currentAuthState(ctx)

	response := AuthStatusResponse{
		Authenticated: state.IsAuthenticated,
		Loading:       state.IsLoading,
		User:          user,
	}

	if !state.IsAuthenticated {
		ctx.WriteJSON(http.StatusUnauthorized, response)
		return
	}

	ctx.WriteJSON(http.StatusOK, response)
}
