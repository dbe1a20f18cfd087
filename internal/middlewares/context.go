package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/view"
)

type AppContext struct {
	context.Context
	Config         *config.Config
	Logger         *slog.Logger
	SessionManager SessionProvider
	OIDCProvider   OIDCProvider
	Renderer       *view.Renderer

	// Boundary guards page rendering for the current request. It is set by the
	// ErrorBoundary middleware and nil on routes that do not render pages.
	Boundary *boundary.Boundary

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:        r.Context(),
				Config:         baseCtx.Config,
				Logger:         baseCtx.Logger,
				SessionManager: baseCtx.SessionManager,
				OIDCProvider:   baseCtx.OIDCProvider,
				Renderer:       baseCtx.Renderer,
				Request:        r,
				Response:       w,
			}

			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AppHandler func(*AppContext)

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h(appCtx)
	}
}

func (ctx *AppContext) Redirect(url string, status int) {
	http.Redirect(ctx.Response, ctx.Request, url, status)
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, sessionManager SessionProvider, oidcProvider OIDCProvider, renderer *view.Renderer) *AppContext {
	return &AppContext{
		Context:        ctx,
		Config:         cfg,
		Logger:         logger,
		SessionManager: sessionManager,
		OIDCProvider:   oidcProvider,
		Renderer:       renderer,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

// RenderPage renders page through the request's error boundary. A failed boundary
// is persisted to the session before anything is written, so the browser keeps
// getting the fallback on later requests.
func (ctx *AppContext) RenderPage(page view.Page) {
	b := ctx.Boundary
	if b == nil {
		b = boundary.New(boundary.WithFallback(ctx.Renderer.Fallback()))
	}

	var buf bytes.Buffer
	_ = b.Render(&buf, func(w io.Writer) error {
		return ctx.Renderer.Render(w, page)
	})

	status := http.StatusOK
	if b.Failed() {
		ctx.SessionManager.SetRenderFailed(ctx)
		status = http.StatusInternalServerError
	}

	ctx.WriteHTML(status, buf.Bytes())
}

func (ctx *AppContext) WriteHTML(status int, body []byte) {
	ctx.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
	ctx.Response.Header().Set("Cache-Control", "no-store")
	ctx.Response.WriteHeader(status)
	if _, err := ctx.Response.Write(body); err != nil {
		ctx.Logger.Error("failed to write html response", "error", err)
	}
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)
	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to marshal json", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

func (ctx *AppContext) SetJSONStatus(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"status": message,
	})
}
