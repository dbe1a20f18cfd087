package view_test

import (
	"bytes"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/models"
	"secure-auth-app/internal/testutil"
	"secure-auth-app/internal/view"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

var allAuthStates = []view.AuthState{
	{IsAuthenticated: false, IsLoading: false},
	{IsAuthenticated: false, IsLoading: true},
	{IsAuthenticated: true, IsLoading: false},
	{IsAuthenticated: true, IsLoading: true},
}

var janeDoe = &models.User{
	Sub:   "auth0|123",
	Name:  "Jane Doe",
	Email: "jane@example.com",
}

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.NewRenderer()
	require.NoError(t, err)
	return r
}

func render(t *testing.T, r *view.Renderer, p view.Page) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, r.Render(&out, p))
	return out.String()
}

func TestRender_UnauthenticatedShowsLoginPrompt(t *testing.T) {
	r := newRenderer(t)

	for _, state := range allAuthStates {
		if state.IsAuthenticated {
			continue
		}

		page := testutil.NewPage(t, render(t, r, view.Page{Auth: state, User: janeDoe}))
		page.AssertLoginPrompt(t)
		assert.False(t, page.ContainsText("jane@example.com"), "user data must not leak into the login prompt")
	}
}

func TestRender_AuthenticatedShowsDashboard(t *testing.T) {
	r := newRenderer(t)

	for _, state := range allAuthStates {
		if !state.IsAuthenticated {
			continue
		}

		page := testutil.NewPage(t, render(t, r, view.Page{Auth: state, User: janeDoe}))
		page.AssertDashboard(t)
		assert.True(t, page.ContainsText("Welcome to Your Secure Dashboard"))
	}
}

func TestRender_LoadingShowsPlaceholderOnly(t *testing.T) {
	r := newRenderer(t)

	page := testutil.NewPage(t, render(t, r, view.Page{
		Auth: view.AuthState{IsAuthenticated: true, IsLoading: true},
		User: janeDoe,
	}))

	assert.True(t, page.HasClass("profile-loading"))
	assert.True(t, page.ContainsText(view.LoadingMessage))
	assert.False(t, page.HasClass("user-profile"))
	assert.False(t, page.ContainsText("Jane Doe"), "no stale user data during loading")
}

func TestRender_ScenarioA(t *testing.T) {
	r := newRenderer(t)

	page := testutil.NewPage(t, render(t, r, view.Page{Auth: view.AuthState{}}))

	page.AssertLoginPrompt(t)
	assert.Equal(t, "Log In", page.TextOfClass("btn-primary"))
	assert.False(t, page.HasClass("btn-danger"))
}

func TestRender_ScenarioB(t *testing.T) {
	r := newRenderer(t)

	page := testutil.NewPage(t, render(t, r, view.Page{
		Auth: view.AuthState{IsAuthenticated: true},
		User: janeDoe,
	}))

	page.AssertDashboard(t)
	assert.True(t, page.ContainsText("Jane Doe"))
	assert.True(t, page.ContainsText("jane@example.com"))
	assert.False(t, page.HasTag(atom.Img), "no avatar without a picture")
	assert.Equal(t, "Log Out", page.TextOfClass("btn-danger"))
}

func TestRender_AvatarUsesPictureAndAltFallback(t *testing.T) {
	r := newRenderer(t)

	named := *janeDoe
	named.Picture = "https://cdn.example.com/jane.png"
	page := testutil.NewPage(t, render(t, r, view.Page{Auth: view.AuthState{IsAuthenticated: true}, User: &named}))

	src, ok := page.Attr(atom.Img, "src")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/jane.png", src)
	alt, _ := page.Attr(atom.Img, "alt")
	assert.Equal(t, "Jane Doe", alt)

	anonymous := &models.User{Sub: "auth0|456", Picture: "https://cdn.example.com/anon.png"}
	page = testutil.NewPage(t, render(t, r, view.Page{Auth: view.AuthState{IsAuthenticated: true}, User: anonymous}))

	alt, ok = page.Attr(atom.Img, "alt")
	require.True(t, ok)
	assert.Equal(t, view.DefaultAltText, alt)
}

func TestRender_IsIdempotent(t *testing.T) {
	r := newRenderer(t)

	for _, state := range allAuthStates {
		p := view.Page{Auth: state, User: janeDoe}
		assert.Equal(t, render(t, r, p), render(t, r, p))
	}
}

func TestRender_LoginErrorOnlyOnPrompt(t *testing.T) {
	r := newRenderer(t)

	page := testutil.NewPage(t, render(t, r, view.Page{LoginError: "Login failed"}))
	assert.Equal(t, "Login failed", page.TextOfClass("login-error"))

	page = testutil.NewPage(t, render(t, r, view.Page{Auth: view.AuthState{IsAuthenticated: true}, User: janeDoe, LoginError: "Login failed"}))
	assert.False(t, page.HasClass("login-error"))
}

func TestRender_EscapesUserData(t *testing.T) {
	r := newRenderer(t)

	out := render(t, r, view.Page{
		Auth: view.AuthState{IsAuthenticated: true},
		User: &models.User{Name: "<script>alert(1)</script>", Email: "x@example.com"},
	})

	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestFallback(t *testing.T) {
	r := newRenderer(t)

	page := testutil.NewPage(t, string(r.Fallback()))
	page.AssertFallback(t)
	assert.True(t, page.ContainsText(boundary.FallbackMessage))
}

func TestAssets(t *testing.T) {
	f, err := view.Assets().Open("app.css")
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
