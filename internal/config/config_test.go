package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
server:
  external_url: "http://localhost:3000/"
oidc:
  domain: "tenant.example.com"
  client_id: "client-123"
`

func TestParseConfig_AppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerConfig.Port, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.ExternalURL)
	assert.Equal(t, "https://tenant.example.com/", cfg.OIDC.IssuerURL)
	assert.Equal(t, "http://localhost:3000", cfg.OIDC.RedirectURI, "callback url should default to the app origin")
	assert.Equal(t, DefaultOIDCConfig.Scopes, cfg.OIDC.Scopes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "memory", cfg.Sessions.Store)
	assert.Equal(t, "fixed", cfg.Sessions.DurationSource)
	assert.Equal(t, 24*time.Hour, cfg.Sessions.FixedTimeout)
	assert.Equal(t, "session_id", cfg.Sessions.Name)
	assert.True(t, cfg.Sessions.Secure)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestParseConfig_InsecureSessionCookie(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig + "sessions:\n  secure: false\n"))
	require.NoError(t, err)

	assert.False(t, cfg.Sessions.Secure)
}

func TestParseConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvOIDCClientID, "env-client")
	t.Setenv(EnvOIDCDomain, "env.example.com")
	t.Setenv(EnvOIDCRedirectURL, "http://localhost:3000/callback")
	t.Setenv(EnvRedisPassword, "hunter2")

	cfg, err := ParseConfig([]byte(minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.OIDC.ClientID)
	assert.Equal(t, "https://env.example.com/", cfg.OIDC.IssuerURL)
	assert.Equal(t, "http://localhost:3000/callback", cfg.OIDC.RedirectURI)
	assert.Equal(t, "/callback", cfg.OIDC.CallbackPath())
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "hunter2", cfg.Redis.Password)
}

func TestLoadConfig(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "client-123", cfg.OIDC.ClientID)
}

func TestValidateOIDCConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantError bool
		errMsg    string
	}{
		{
			name: "issuer url wins over domain",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "ignored.example.com", IssuerURL: "https://idp.example.com/realms/main"},
			},
		},
		{
			name: "domain with scheme",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "https://tenant.example.com"},
			},
		},
		{
			name: "missing client id",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{Domain: "tenant.example.com"},
			},
			wantError: true,
			errMsg:    "client_id is required",
		},
		{
			name: "missing domain and issuer",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc"},
			},
			wantError: true,
			errMsg:    "oidc.domain or oidc.issuer_url",
		},
		{
			name: "domain with path",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com/extra"},
			},
			wantError: true,
			errMsg:    "not a valid host name",
		},
		{
			name: "redirect url without scheme",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com", RedirectURI: "localhost:3000/callback"},
			},
			wantError: true,
			errMsg:    "oidc.redirect_url",
		},
		{
			name: "redirect url on another origin",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com", RedirectURI: "https://evil.example.com/callback"},
			},
			wantError: true,
			errMsg:    "must be on the server.external_url origin",
		},
		{
			name: "redirect url with route pattern",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com", RedirectURI: "http://localhost:3000/cb/{id}"},
			},
			wantError: true,
			errMsg:    "route patterns",
		},
		{
			name: "redirect url with custom path",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com", RedirectURI: "http://localhost:3000/oauth/callback"},
			},
		},
		{
			name: "scopes without openid",
			config: &Config{
				Server: ServerConfig{ExternalURL: "http://localhost:3000"},
				OIDC:   OIDCConfig{ClientID: "abc", Domain: "tenant.example.com", Scopes: []string{"profile"}},
			},
			wantError: true,
			errMsg:    "must include openid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validateOIDCConfig()
			if tt.wantError {
				if err == nil {
					t.Errorf("validateOIDCConfig() expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("validateOIDCConfig() error = %v, want error containing %v", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("validateOIDCConfig() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestValidateSessionAndRedisConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantError bool
		errMsg    string
	}{
		{
			name:   "memory store",
			config: &Config{Sessions: SessionConfig{Store: "memory"}},
		},
		{
			name:      "unknown store",
			config:    &Config{Sessions: SessionConfig{Store: "sqlite"}},
			wantError: true,
			errMsg:    "invalid session store",
		},
		{
			name:      "unknown duration source",
			config:    &Config{Sessions: SessionConfig{DurationSource: "forever"}},
			wantError: true,
			errMsg:    "invalid session duration source",
		},
		{
			name:      "redis store without redis block",
			config:    &Config{Sessions: SessionConfig{Store: "redis"}},
			wantError: true,
			errMsg:    "redis configuration is required",
		},
		{
			name:      "redis address without port",
			config:    &Config{Sessions: SessionConfig{Store: "redis"}, Redis: &RedisConfig{Address: "redis"}},
			wantError: true,
			errMsg:    "host:port",
		},
		{
			name:   "redis sentinel",
			config: &Config{Sessions: SessionConfig{Store: "redis"}, Redis: &RedisConfig{Sentinel: &RedisSentinelConfig{MasterName: "mymaster", SentinelAddresses: []string{"sentinel:26379"}}}},
		},
		{
			name:      "redis index out of range",
			config:    &Config{Sessions: SessionConfig{Store: "redis"}, Redis: &RedisConfig{Address: "redis:6379", SessionIndex: 16}},
			wantError: true,
			errMsg:    "session_index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validateSessionConfig()
			if err == nil && tt.config.Sessions.Store == "redis" {
				err = tt.config.validateRedisConfig()
			}

			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateLogConfig(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "debug", Format: "json"}}
	require.NoError(t, cfg.validateLogConfig())
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg = &Config{Log: LogConfig{Level: "verbose"}}
	require.ErrorContains(t, cfg.validateLogConfig(), "invalid log level")

	cfg = &Config{Log: LogConfig{Format: "xml"}}
	require.ErrorContains(t, cfg.validateLogConfig(), "invalid log format")
}

func TestOIDCConfig_CallbackPath(t *testing.T) {
	tests := map[string]string{
		"http://localhost:3000":                "/",
		"http://localhost:3000/":               "/",
		"http://localhost:3000/callback":       "/callback",
		"http://localhost:3000/oauth/callback": "/oauth/callback",
	}

	for redirectURL, expected := range tests {
		assert.Equal(t, expected, OIDCConfig{RedirectURI: redirectURL}.CallbackPath(), redirectURL)
	}
}
