package middlewares

import (
	"net/http"
	"runtime/debug"
	"secure-auth-app/internal/boundary"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorBoundary gives every page request a boundary restored from the session.
// Once a render failed for a browser session, every later page request gets the
// fallback until the session is destroyed. Panics from the handler are treated
// as render failures, http.ErrAbortHandler is passed through untouched.
//
// A panic after the handler started its response is reported but neither latched
// nor answered: the session was committed with the header and the response
// cannot be replaced anymore.
//
// It must run after AppContextMiddleware and inside the session LoadAndSave.
func ErrorBoundary(reporter boundary.Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := GetAppContext(r)
			if ctx == nil {
				next.ServeHTTP(w, r)
				return
			}

			state := boundary.Healthy
			if ctx.SessionManager.HasRenderFailed(ctx) {
				state = boundary.Failed
			}

			ctx.Boundary = boundary.New(
				boundary.WithState(state),
				boundary.WithFallback(ctx.Renderer.Fallback()),
				boundary.WithReporter(reporter),
				boundary.WithComponent(r.URL.Path),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx.Response = ww

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctx.Boundary.Fail(&boundary.PanicError{Value: rec}, debug.Stack())
				if ww.Status() != 0 {
					ctx.Logger.Warn("Page handler panicked after writing its response", "path", r.URL.Path, "status", ww.Status())
					return
				}

				ctx.SessionManager.SetRenderFailed(ctx)
				ctx.WriteHTML(http.StatusInternalServerError, ctx.Boundary.Fallback())
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
