package server

import (
	"net/http"
	"secure-auth-app/internal/boundary"
	"secure-auth-app/internal/handlers"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/view"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(ctx *middlewares.AppContext, reporter boundary.Reporter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Use(ctx.SessionManager.LoadAndSave)

	r.Use(middlewares.AppContextMiddleware(ctx))

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(view.Assets())))

	r.Group(func(r chi.Router) {
		r.Use(middlewares.ErrorBoundary(reporter))

		r.Get("/", ctx.HandlerFunc(handlers.GETIndexHandler))
		r.Get(handlers.CallbackPath, ctx.HandlerFunc(handlers.GETCallbackHandler))

		// "/" already recognises authorization responses
		if path := ctx.Config.OIDC.CallbackPath(); path != "/" && path != handlers.CallbackPath {
			r.Get(path, ctx.HandlerFunc(handlers.GETCallbackHandler))
		}
	})

	r.Get(view.LoginPath, ctx.HandlerFunc(handlers.GETLoginHandler))
	r.Post(view.LogoutPath, ctx.HandlerFunc(handlers.POSTLogoutHandler))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
			AllowedMethods:   ctx.Config.CORS.AllowedMethods,
			AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
			ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
			AllowCredentials: ctx.Config.CORS.AllowCredentials,
			MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
		}))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", ctx.HandlerFunc(handlers.GETAuthStatusHandler))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
