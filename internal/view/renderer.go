package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/models"
)

const (
	Title      = "Secure Authentication App"
	LoginPath  = "/login"
	LogoutPath = "/logout"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Page is the input of a page render.
type Page struct {
	Auth       AuthState
	User       *models.User
	LoginError string
}

type pageData struct {
	Title         string
	Authenticated bool
	Profile       ProfileView
	LoginPath     string
	LogoutPath    string
	LoginError    string
}

type errorData struct {
	Title   string
	Heading string
	Message string
}

// Renderer turns auth state into the dashboard page. It holds no per-request
// state and is safe for concurrent use.
type Renderer struct {
	templates *template.Template
	fallback  []byte
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	var fallback bytes.Buffer
	err = templates.ExecuteTemplate(&fallback, "error.html", errorData{
		Title:   Title,
		Heading: boundary.FallbackTitle,
		Message: boundary.FallbackMessage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render fallback page: %w", err)
	}

	return &Renderer{
		templates: templates,
		fallback:  fallback.Bytes(),
	}, nil
}

// Render writes the page for p to w. Exactly one of the login prompt and the
// authenticated dashboard is rendered.
func (r *Renderer) Render(w io.Writer, p Page) error {
	data := pageData{
		Title:      Title,
		LoginPath:  LoginPath,
		LogoutPath: LogoutPath,
	}

	switch state := Resolve(p.Auth, p.User).(type) {
	case Authenticated:
		data.Authenticated = true
		data.Profile = state.Profile
	case Unauthenticated:
		data.LoginError = p.LoginError
	}

	return r.templates.ExecuteTemplate(w, "page.html", data)
}

// Fallback is the static page shown by a failed error boundary.
func (r *Renderer) Fallback() []byte {
	return r.fallback
}

// Assets serves the embedded stylesheet.
func Assets() http.FileSystem {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
