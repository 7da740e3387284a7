package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL returns nil if the given string is an absolute http or https
// URL with a host. It performs no DNS resolution or reachability check.
func ValidateURL(raw string) error {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %v", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL has no host")
	}

	return nil
}
