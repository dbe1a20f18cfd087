package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses raw YAML, applies environment overrides and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	// secure cookies unless the file turns them off
	config := Config{Sessions: SessionConfig{Secure: DefaultSessionConfig.Secure}}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvServerExternalURL     = "AUTHAPP_SERVER_EXTERNAL_URL"
	EnvOIDCDomain            = "AUTHAPP_OIDC_DOMAIN"
	EnvOIDCClientID          = "AUTHAPP_OIDC_CLIENT_ID"
	EnvOIDCClientSecret      = "AUTHAPP_OIDC_CLIENT_SECRET"
	EnvOIDCIssuerURL         = "AUTHAPP_OIDC_ISSUER_URL"
	EnvOIDCRedirectURL       = "AUTHAPP_OIDC_REDIRECT_URL"
	EnvRedisPassword         = "AUTHAPP_REDIS_PASSWORD"
	EnvRedisUsername         = "AUTHAPP_REDIS_USERNAME"
	EnvRedisSentinelUsername = "AUTHAPP_REDIS_SENTINEL_USERNAME"
	EnvRedisSentinelPassword = "AUTHAPP_REDIS_SENTINEL_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) {
	if externalURL := os.Getenv(EnvServerExternalURL); externalURL != "" {
		config.Server.ExternalURL = externalURL
	}

	if domain := os.Getenv(EnvOIDCDomain); domain != "" {
		config.OIDC.Domain = domain
	}

	if clientID := os.Getenv(EnvOIDCClientID); clientID != "" {
		config.OIDC.ClientID = clientID
	}

	if clientSecret := os.Getenv(EnvOIDCClientSecret); clientSecret != "" {
		config.OIDC.ClientSecret = clientSecret
	}

	if issuerURL := os.Getenv(EnvOIDCIssuerURL); issuerURL != "" {
		config.OIDC.IssuerURL = issuerURL
	}

	if redirectURL := os.Getenv(EnvOIDCRedirectURL); redirectURL != "" {
		config.OIDC.RedirectURI = redirectURL
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if sentinelUsername := os.Getenv(EnvRedisSentinelUsername); sentinelUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelUsername = sentinelUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}
}

func validateConfig(config *Config) error {
	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateOIDCConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateSessionConfig()
	if err != nil {
		return err
	}

	if config.Sessions.Store == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ExternalURL == "" {
		return fmt.Errorf("server.external_url is required")
	}

	if err := validateURL(c.Server.ExternalURL, "server.external_url"); err != nil {
		return err
	}
	c.Server.ExternalURL = strings.TrimSuffix(c.Server.ExternalURL, "/")

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

// validateOIDCConfig must run after validateServerConfig, the redirect url falls back to the external url.
func (c *Config) validateOIDCConfig() error {
	if c.OIDC.ClientID == "" {
		return fmt.Errorf("oidc.client_id is required")
	}

	if c.OIDC.IssuerURL == "" {
		if c.OIDC.Domain == "" {
			return fmt.Errorf("one of oidc.domain or oidc.issuer_url is required")
		}
		issuer, err := issuerFromDomain(c.OIDC.Domain)
		if err != nil {
			return err
		}
		c.OIDC.IssuerURL = issuer
	}

	if err := validateURL(c.OIDC.IssuerURL, "oidc.issuer_url"); err != nil {
		return err
	}

	if c.OIDC.RedirectURI == "" {
		c.OIDC.RedirectURI = c.Server.ExternalURL
	}

	if err := validateURL(c.OIDC.RedirectURI, "oidc.redirect_url"); err != nil {
		return err
	}

	if err := validateRedirectURL(c.OIDC.RedirectURI, c.Server.ExternalURL); err != nil {
		return err
	}

	if c.OIDC.LogoutURL != "" {
		if err := validateURL(c.OIDC.LogoutURL, "oidc.logout_url"); err != nil {
			return err
		}
	}

	if len(c.OIDC.Scopes) == 0 {
		c.OIDC.Scopes = DefaultOIDCConfig.Scopes
	}

	hasOpenID := false
	for _, scope := range c.OIDC.Scopes {
		if scope == "openid" {
			hasOpenID = true
			break
		}
	}
	if !hasOpenID {
		return fmt.Errorf("oidc.scopes must include openid")
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{c.Server.ExternalURL}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateSessionConfig() error {
	if c.Sessions.Store == "" {
		c.Sessions.Store = DefaultSessionConfig.Store
	} else {
		switch c.Sessions.Store {
		case "memory", "redis":
		default:
			return fmt.Errorf("invalid session store: %s, options are 'memory' or 'redis'", c.Sessions.Store)
		}
	}

	if c.Sessions.DurationSource == "" {
		c.Sessions.DurationSource = DefaultSessionConfig.DurationSource
	} else {
		switch c.Sessions.DurationSource {
		case "fixed", "oidc_tokens":
		default:
			return fmt.Errorf("invalid session duration source: %s, options are 'fixed' or 'oidc_tokens'", c.Sessions.DurationSource)
		}
	}

	if c.Sessions.Name == "" {
		c.Sessions.Name = DefaultSessionConfig.Name
	}

	if c.Sessions.FixedTimeout == 0 {
		c.Sessions.FixedTimeout = DefaultSessionConfig.FixedTimeout
	} else if c.Sessions.FixedTimeout < 0 {
		return fmt.Errorf("sessions.fixed_timeout must be positive, got %s", c.Sessions.FixedTimeout)
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis configuration is required to use redis for sessions")
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	} else {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	const maxRedisDB = 15
	if c.Redis.SessionIndex < 0 || c.Redis.SessionIndex > maxRedisDB {
		return fmt.Errorf("redis session_index must be between 0 and %d, got %d", maxRedisDB, c.Redis.SessionIndex)
	}

	return nil
}

// issuerFromDomain turns a bare tenant domain into an issuer url. A domain that already
// carries a scheme is used as is.
func issuerFromDomain(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return strings.TrimSuffix(domain, "/") + "/", nil
	}

	parsed, err := url.Parse("https://" + domain)
	if err != nil || parsed.Host == "" || parsed.Path != "" {
		return "", fmt.Errorf("oidc.domain %q is not a valid host name", domain)
	}

	return "https://" + parsed.Host + "/", nil
}
