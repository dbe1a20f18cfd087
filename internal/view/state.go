package view

import "secure-auth-app/internal/models"

// AuthState is the authentication status reported by the identity provider client.
// The view layer only ever reads it.
type AuthState struct {
	IsAuthenticated bool `json:"authenticated"`
	IsLoading       bool `json:"loading"`
}

// ViewState is the page branch selected for an AuthState, either Unauthenticated
// or Authenticated.
type ViewState interface {
	isViewState()
}

type Unauthenticated struct{}

type Authenticated struct {
	Profile ProfileView
}

func (Unauthenticated) isViewState() {}
func (Authenticated) isViewState()   {}

// Resolve picks exactly one branch for state. The loading flag does not change
// the branch, it only affects the profile shown inside the authenticated one.
func Resolve(state AuthState, user *models.User) ViewState {
	if !state.IsAuthenticated {
		return Unauthenticated{}
	}

	return Authenticated{Profile: Profile(state, user)}
}
