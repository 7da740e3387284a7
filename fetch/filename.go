package fetch

import (
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/flytam/filenamify"
)

// DeriveFilename produces a safe filename for content downloaded from the
// given URL. When the URL path carries no usable basename, it synthesizes one
// from the host and the given timestamp, with an extension resolved from the
// content type. taken reports whether a candidate name is already in use;
// colliding names get a _1, _2, ... suffix before the extension, first free
// integer wins.
func DeriveFilename(rawURL, contentType string, now time.Time, taken func(string) bool) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		parsed = &url.URL{}
	}

	filename := path.Base(parsed.Path)
	if filename == "/" || filename == "." {
		filename = ""
	}

	if filename == "" || !strings.Contains(filename, ".") {
		host := strings.TrimPrefix(parsed.Host, "www.")
		filename = fmt.Sprintf("%s_%d%s", host, now.Unix(), extensionFor(contentType))
	}

	filename = sanitize(filename)

	if !taken(filename) {
		return filename
	}

	ext := path.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !taken(candidate) {
			return candidate
		}
	}
}

// commonExts pins the extensions of frequent image types;
// mime.ExtensionsByType returns alternatives like .jfif for jpeg depending on
// the host's mime tables.
var commonExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// extensionFor resolves a file extension from a content type. It falls back
// to ".jpg" when the type is unknown.
func extensionFor(contentType string) string {
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	if ext, ok := commonExts[mediaType]; ok {
		return ext
	}

	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ".jpg"
	}
	return exts[0]
}

// sanitize deletes every character outside [A-Za-z0-9.-_], then lets
// filenamify rename anything that is still reserved on some filesystem
// (device names, trailing dots).
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return -1
	}, name)

	safe, err := filenamify.Filenamify(name, filenamify.Options{Replacement: "_"})
	if err != nil {
		return name
	}
	return safe
}
