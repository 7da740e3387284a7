package media

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Expander maps a media page url to the direct urls of the images it
// contains. Most expander implementations only know how to access a
// particular web site (e.g., imgur).
type Expander interface {
	// Expand returns the direct image urls behind the given url. It returns
	// (nil, nil) if it does not recognize the url.
	Expand(ctx context.Context, u string) ([]string, error)
}

// ExpandAll runs each url through the given expanders, replacing recognized
// urls with their expansions. Unrecognized urls pass through unchanged, as do
// urls whose expansion fails.
func ExpandAll(ctx context.Context, expanders []Expander, urls []string) []string {
	var result []string
	for _, u := range urls {
		result = append(result, expandOne(ctx, expanders, u)...)
	}
	return result
}

func expandOne(ctx context.Context, expanders []Expander, u string) []string {
	for _, e := range expanders {
		expanded, err := e.Expand(ctx, u)
		if err != nil {
			log.WithError(err).Errorf("failed to expand link: link=%s", u)
			return []string{u}
		}
		if expanded != nil {
			return expanded
		}
	}

	return []string{u}
}
