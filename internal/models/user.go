package models

import "time"

// User is the profile of the signed-in user as reported by the identity provider.
// Every display field is optional, providers omit claims freely.
type User struct {
	Sub          string    `json:"sub"`
	Iss          string    `json:"iss"`
	Name         string    `json:"name,omitempty"`
	Nickname     string    `json:"nickname,omitempty"`
	Email        string    `json:"email,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	LastLoggedIn time.Time `json:"last_logged_in"`
}

// DisplayName returns the best human readable label for the user, or "" when the
// provider sent nothing usable.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}

	for _, v := range []string{u.Name, u.Nickname, u.Email} {
		if v != "" {
			return v
		}
	}
	return ""
}
