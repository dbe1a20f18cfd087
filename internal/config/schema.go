package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	OIDC     OIDCConfig    `yaml:"oidc"`
	Log      LogConfig     `yaml:"log"`
	CORS     CORSConfig    `yaml:"cors"`
	Sessions SessionConfig `yaml:"sessions"`
	Redis    *RedisConfig  `yaml:"redis"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// ExternalURL is the origin the browser uses to reach the app. It is the
	// default callback URL and the post-logout return address.
	ExternalURL string             `yaml:"external_url"`
	Debug       *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port: 8080,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type OIDCConfig struct {
	// Domain is the identity provider tenant domain, e.g. "example.us.auth0.com".
	// IssuerURL wins when both are set.
	Domain       string   `yaml:"domain"`
	IssuerURL    string   `yaml:"issuer_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURI  string   `yaml:"redirect_url"`
	LogoutURL    string   `yaml:"logout_url"`
	Scopes       []string `yaml:"scopes"`
}

var DefaultOIDCConfig = OIDCConfig{
	Scopes: []string{"openid", "profile", "email"},
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

type SessionConfig struct {
	Store          string        `yaml:"store"`
	DurationSource string        `yaml:"duration_source"`
	FixedTimeout   time.Duration `yaml:"fixed_timeout"`
	Name           string        `yaml:"name"`
	Secure         bool          `yaml:"secure"`
}

var DefaultSessionConfig = SessionConfig{
	Store:          "memory",
	DurationSource: "fixed",
	FixedTimeout:   24 * time.Hour,
	Name:           "session_id",
	Secure:         true,
}

type RedisConfig struct {
	Address      string               `yaml:"address"`
	Username     string               `yaml:"username"`
	Password     string               `yaml:"password"`
	Sentinel     *RedisSentinelConfig `yaml:"sentinel"`
	SessionIndex int                  `yaml:"session_index"`
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}
