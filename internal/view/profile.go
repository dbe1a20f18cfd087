package view

import (
	"net/url"
	"secure-auth-app/internal/models"
)

type ProfileKind int

const (
	ProfileHidden ProfileKind = iota
	ProfileLoading
	ProfileCard
)

const (
	LoadingMessage = "Loading user information..."
	DefaultAltText = "User Profile"
)

// ProfileView is what the profile display renders.
type ProfileView struct {
	Kind    ProfileKind
	Name    string
	Email   string
	Picture string
	AltText string
}

func (p ProfileView) Loading() bool {
	return p.Kind == ProfileLoading
}

func (p ProfileView) Visible() bool {
	return p.Kind == ProfileCard
}

// Profile maps the auth state and the (possibly missing) user record to a profile
// display. User data is only exposed once authentication finished loading, a
// missing record while authenticated counts as still loading.
func Profile(state AuthState, user *models.User) ProfileView {
	if state.IsLoading {
		return ProfileView{Kind: ProfileLoading}
	}

	if !state.IsAuthenticated {
		return ProfileView{Kind: ProfileHidden}
	}

	if user == nil {
		return ProfileView{Kind: ProfileLoading}
	}

	altText := user.Name
	if altText == "" {
		altText = DefaultAltText
	}

	return ProfileView{
		Kind:    ProfileCard,
		Name:    user.Name,
		Email:   user.Email,
		Picture: pictureURL(user.Picture),
		AltText: altText,
	}
}

// pictureURL drops anything that would not load as an image so the card never
// shows a broken avatar.
func pictureURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}

	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return ""
	}

	return parsed.String()
}
