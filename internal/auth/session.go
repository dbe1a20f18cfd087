package auth

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"
	"secure-auth-app/internal/config"
	"secure-auth-app/internal/middlewares"
	"secure-auth-app/internal/models"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/redis/go-redis/v9"
)

type SessionManager struct {
	*scs.SessionManager
	durationSource string
	fixedTimeout   time.Duration
	redis          *redis.Client
}

func NewSessionManager(logger *slog.Logger, cfg *config.Config) (*SessionManager, error) {
	gob.Register(&models.User{})
	sessionManager := scs.New()

	var client *redis.Client
	switch cfg.Sessions.Store {
	case "memory":
		sessionManager.Store = memstore.New()
	case "redis":
		client = NewRedisClient(logger, cfg.Redis)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}

		sessionManager.Store = goredisstore.New(client)
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Sessions.Store)
	}

	sessionManager.Lifetime = cfg.Sessions.FixedTimeout

	sessionManager.Cookie.Name = cfg.Sessions.Name
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = cfg.Sessions.Secure
	sessionManager.Cookie.Path = "/"

	return &SessionManager{
		SessionManager: sessionManager,
		durationSource: cfg.Sessions.DurationSource,
		fixedTimeout:   cfg.Sessions.FixedTimeout,
		redis:          client,
	}, nil
}

// NewRedisClient connects to a standalone redis or, when configured, through sentinel.
func NewRedisClient(logger *slog.Logger, cfg *config.RedisConfig) *redis.Client {
	if cfg.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Sentinel.MasterName,
			"sentinels", cfg.Sentinel.SentinelAddresses)

		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Sentinel.MasterName,
			SentinelAddrs:    cfg.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Sentinel.SentinelPassword,
			Username:         cfg.Username,
			Password:         cfg.Password,
			DB:               cfg.SessionIndex,
			MinIdleConns:     2,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.SessionIndex,
		MinIdleConns: 2,
	})
}

// RedisClient returns the client backing the session store, nil for the memory store.
func (s *SessionManager) RedisClient() *redis.Client {
	return s.redis
}

// Close releases the redis connection pool. It is a no-op for the memory store.
func (s *SessionManager) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

func (s *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return s.SessionManager.LoadAndSave(next)
}

func (s *SessionManager) SetUser(ctx *middlewares.AppContext, user *models.User) {
	s.Put(ctx, string(SessionKeyUserData), user)
}

func (s *SessionManager) GetUser(ctx *middlewares.AppContext) (user *models.User, ok bool) {
	data := s.Get(ctx, string(SessionKeyUserData))
	if data == nil {
		return nil, false
	}

	if user, ok := data.(*models.User); ok && user != nil {
		return user, true
	}

	return nil, false
}

func (s *SessionManager) SetAuthenticated(ctx *middlewares.AppContext, authenticated bool) {
	s.Put(ctx, string(SessionKeyAuthenticated), authenticated)
}

func (s *SessionManager) IsAuthenticated(ctx *middlewares.AppContext) bool {
	return s.GetBool(ctx, string(SessionKeyAuthenticated))
}

func (s *SessionManager) SetExpiresAt(ctx *middlewares.AppContext, expiresAt time.Time) {
	s.Put(ctx, string(SessionKeyExpiresAt), expiresAt.Unix())
}

func (s *SessionManager) GetExpiresAt(ctx *middlewares.AppContext) (time.Time, bool) {
	timestamp := s.GetInt64(ctx, string(SessionKeyExpiresAt))
	if timestamp == 0 {
		return time.Time{}, false
	}
	return time.Unix(timestamp, 0), true
}

func (s *SessionManager) SetRedirectAfterLogin(ctx *middlewares.AppContext, redirectAfterLogin string) {
	s.Put(ctx, string(SessionKeyRedirectAfterLogin), redirectAfterLogin)
}

// GetRedirectAfterLogin returns the stored return path once, it is removed on read.
func (s *SessionManager) GetRedirectAfterLogin(ctx *middlewares.AppContext) string {
	return s.PopString(ctx, string(SessionKeyRedirectAfterLogin))
}

func (s *SessionManager) SetOauthState(ctx *middlewares.AppContext, state string) {
	s.Put(ctx, string(SessionKeyOauthState), state)
}

func (s *SessionManager) GetOauthState(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) ClearOauthState(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthState))
}

func (s *SessionManager) SetOauthNonce(ctx *middlewares.AppContext, nonce string) {
	s.Put(ctx, string(SessionKeyOauthNonce), nonce)
}

func (s *SessionManager) GetOauthNonce(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthNonce))
}

func (s *SessionManager) ClearOauthNonce(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthNonce))
}

func (s *SessionManager) SetOauthCodeVerifier(ctx *middlewares.AppContext, verifier string) {
	s.Put(ctx, string(SessionKeyOauthCodeVerifier), verifier)
}

func (s *SessionManager) GetOauthCodeVerifier(ctx *middlewares.AppContext) string {
	return s.GetString(ctx, string(SessionKeyOauthCodeVerifier))
}

func (s *SessionManager) ClearOauthCodeVerifier(ctx *middlewares.AppContext) {
	s.Remove(ctx, string(SessionKeyOauthCodeVerifier))
}

// SetRenderFailed latches the error boundary for this browser session. There is
// no way to clear it short of destroying the session.
func (s *SessionManager) SetRenderFailed(ctx *middlewares.AppContext) {
	s.Put(ctx, string(SessionKeyRenderFailed), true)
}

func (s *SessionManager) HasRenderFailed(ctx *middlewares.AppContext) bool {
	return s.GetBool(ctx, string(SessionKeyRenderFailed))
}

// CreateSessionWithTokenExpiry marks the session authenticated for user. The session
// token is renewed to prevent fixation, and its lifetime follows either the ID token
// or the fixed timeout depending on sessions.duration_source.
func (s *SessionManager) CreateSessionWithTokenExpiry(ctx *middlewares.AppContext, idToken *oidc.IDToken, user *models.User) error {
	now := time.Now()
	tokenExpiry := idToken.Expiry

	if !tokenExpiry.IsZero() && !tokenExpiry.After(now) {
		return fmt.Errorf("token already expired")
	}

	expiresAt := now.Add(s.fixedTimeout)
	if s.durationSource == "oidc_tokens" {
		if tokenExpiry.IsZero() {
			return fmt.Errorf("token has no expiry")
		}
		expiresAt = tokenExpiry
	}

	if err := s.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}

	s.SetUser(ctx, user)
	s.SetAuthenticated(ctx, true)
	s.SetExpiresAt(ctx, expiresAt)

	return nil
}

func (s *SessionManager) IsUserAuthenticated(ctx *middlewares.AppContext) bool {
	if !s.IsAuthenticated(ctx) {
		return false
	}

	expiresAt, exists := s.GetExpiresAt(ctx)
	if exists && !time.Now().Before(expiresAt) {
		return false
	}

	return true
}

func (s *SessionManager) Logout(ctx *middlewares.AppContext) error {
	return s.Destroy(ctx)
}
