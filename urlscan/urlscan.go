// Package urlscan extracts candidate download URLs from free-form text.
package urlscan

import (
	"os"

	"mvdan.cc/xurls/v2"
)

// Extract returns every strict URL found in the given text, in order of
// appearance.
func Extract(text string) []string {
	rx := xurls.Strict()
	return rx.FindAllString(text, -1)
}

// FromFile reads the given text file and extracts the URLs it contains. The
// file doesn't need any particular format; URLs are recognized anywhere in
// the text.
func FromFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Extract(string(b)), nil
}
