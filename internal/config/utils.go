package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validateURL(urlStr, fieldName string) error {
	if urlStr == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s must have http or https scheme", fieldName)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must include a host", fieldName)
	}

	return nil
}

// validateRedirectURL checks that the callback is served by this application: the
// session cookie is only sent back to the external url origin, and the path is
// mounted as a route.
func validateRedirectURL(redirectURL, externalURL string) error {
	redirect, err := url.Parse(redirectURL)
	if err != nil {
		return fmt.Errorf("oidc.redirect_url is not a valid URL: %w", err)
	}

	external, err := url.Parse(externalURL)
	if err != nil {
		return fmt.Errorf("server.external_url is not a valid URL: %w", err)
	}

	if redirect.Scheme != external.Scheme || redirect.Host != external.Host {
		return fmt.Errorf("oidc.redirect_url must be on the server.external_url origin %s://%s", external.Scheme, external.Host)
	}

	if strings.ContainsAny(redirect.Path, "{}*") {
		return fmt.Errorf("oidc.redirect_url path %q must not contain route patterns", redirect.Path)
	}

	return nil
}

// CallbackPath is the path the identity provider redirects back to, "/" when the
// redirect url is the bare origin.
func (c OIDCConfig) CallbackPath() string {
	u, err := url.Parse(c.RedirectURI)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
