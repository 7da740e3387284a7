package fetch

import (
	"fmt"
	"strings"
)

// maxQuietSize is the largest content-length that doesn't draw a size
// warning.
const maxQuietSize = 50 * 1024 * 1024

// CheckHeaders inspects response metadata and returns advisory warnings, in
// a fixed order. Warnings never cause a fetch to fail; the hard content-type
// rejection is the pipeline's job. contentLength < 0 means the header was
// absent.
func CheckHeaders(contentType string, contentLength int64, disposition string) []string {
	var warnings []string

	if !strings.HasPrefix(contentType, "image/") {
		warnings = append(warnings,
			fmt.Sprintf("content-type is %q, not an image type", contentType))
	}

	if contentLength > maxQuietSize {
		mb := float64(contentLength) / (1024 * 1024)
		warnings = append(warnings, fmt.Sprintf("large file size: %.1fMB", mb))
	}

	if strings.Contains(disposition, "attachment") && strings.Contains(disposition, "filename") {
		warnings = append(warnings, "server suggests downloading as attachment")
	}

	return warnings
}
