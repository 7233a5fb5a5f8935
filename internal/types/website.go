package types

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateWebsiteURL checks that a candidate company homepage URL is
// well-formed before it is submitted to the scrape endpoint: http or https
// only, a hostname containing at least one dot, and not localhost. Trivially
// invalid input never reaches the server.
func ValidateWebsiteURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("website URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL format: URL must start with http:// or https://")
	}
	host := u.Hostname()
	if host == "" || host == "localhost" || !strings.Contains(host, ".") {
		return fmt.Errorf("invalid URL format: URL must point at a public hostname such as https://acme.com")
	}
	return nil
}
