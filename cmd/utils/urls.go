package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// IsLocalhost reports whether serverURL points at this machine.
func IsLocalhost(serverURL string) bool {
	u, err := url.Parse(serverURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// ValidateEndpoint checks that endpoint is an absolute http(s) URL with a host.
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

// ChatCompletionsURL joins the completions path onto endpoint. A single
// trailing slash on endpoint is tolerated.
func ChatCompletionsURL(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/") + "/chat/completions"
}
