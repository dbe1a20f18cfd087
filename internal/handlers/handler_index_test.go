package handlers

import (
	"net/http"
	"secure-auth-app/internal/auth"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/models"
	"secure-auth-app/internal/testutil"
	"secure-auth-app/internal/view"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html/atom"
)

var janeDoe = &models.User{
	Sub:   "auth0|123",
	Iss:   "https://tenant.example.com/",
	Name:  "Jane Doe",
	Email: "jane@example.com",
}

func TestGetIndexHandler_ShouldRenderLoginPromptForAnonymousUser(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	defer tc.Finish()

	tc.ExpectAnonymous()

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertContentType(t, "text/html; charset=utf-8")

	page := tc.Page(t)
	page.AssertLoginPrompt(t)
	assert.True(t, page.ContainsText(view.Title))
	assert.False(t, page.HasClass("login-error"))
}

func TestGetIndexHandler_ShouldRenderDashboardForKnownUser(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	defer tc.Finish()

	tc.ExpectAuthenticated(janeDoe)

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusOK)

	page := tc.Page(t)
	page.AssertDashboard(t)
	assert.True(t, page.ContainsText("Jane Doe"))
	assert.True(t, page.ContainsText("jane@example.com"))
	assert.False(t, page.HasTag(atom.Img))
}

func TestGetIndexHandler_ShouldRenderLoadingWithoutUserRecord(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	defer tc.Finish()

	tc.ExpectAuthenticated(nil)

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusOK)

	page := tc.Page(t)
	page.AssertDashboard(t)
	assert.True(t, page.HasClass("profile-loading"))
	assert.False(t, page.HasClass("user-profile"))
}

func TestGetIndexHandler_ShouldShowLoginError(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	tc.WithQueryParam("error", "access_denied")
	defer tc.Finish()

	tc.ExpectAnonymous()

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusOK)

	page := tc.Page(t)
	page.AssertLoginPrompt(t)
	assert.Equal(t, loginErrorMessages["access_denied"], page.TextOfClass("login-error"))
}

func TestGetIndexHandler_ShouldRenderFallbackOnceFailed(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	tc.WithBoundary(boundary.Failed)
	defer tc.Finish()

	tc.ExpectAuthenticated(janeDoe)
	tc.MockSession.EXPECT().SetRenderFailed(tc.AppContext).Times(1)

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusInternalServerError)
	tc.AssertContentType(t, "text/html; charset=utf-8")

	page := tc.Page(t)
	page.AssertFallback(t)
	assert.False(t, page.ContainsText("Jane Doe"))
	assert.Empty(t, tc.Reports.Errors, "a restored failure is not reported again")
}

func TestGetIndexHandler_ShouldTreatAuthorizationResponseAsCallback(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/")
	tc.WithQueryParam("code", "abc")
	tc.WithQueryParam("state", "xyz")
	defer tc.Finish()

	tc.MockOidcProvider.EXPECT().HandleCallback(tc.AppContext).Return(nil, nil, &auth.OIDCError{
		RedirectURL: auth.LoginErrorURL("invalid_request"),
		Message:     "invalid state parameter",
	}).Times(1)

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusFound)
	tc.AssertLocationHeader(t, "/?error=invalid_request")
}

func TestGetIndexHandler_ShouldNotTreatLoginErrorAsCallback(t *testing.T) {
	tc := testutil.NewTestContextWithURL(t, "GET", "/?error=invalid_request")
	defer tc.Finish()

	tc.ExpectAnonymous()

	tc.CallHandler(GETIndexHandler)

	tc.AssertStatus(t, http.StatusOK)
	tc.Page(t).AssertLoginPrompt(t)
}
