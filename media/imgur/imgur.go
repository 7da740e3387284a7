// Package imgur expands imgur page and album urls into direct image urls.
package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/koffeinsource/go-imgur"
	log "github.com/sirupsen/logrus"
)

const (
	clientID       = "ab1802d70cb1deb"
	defaultAPIBase = "https://api.imgur.com/3"
	apiTimeout     = 30 * time.Second
)

// Expander resolves imgur urls to direct image links. It implements the
// media.Expander interface.
type Expander struct {
	hc      *http.Client
	apiBase string // Overridden in tests.
}

func NewExpander(hc *http.Client) *Expander {
	return &Expander{
		hc:      hc,
		apiBase: defaultAPIBase,
	}
}

type albumInfoDataWrapper struct {
	AI      *imgur.AlbumInfo `json:"data"`
	Success bool             `json:"success"`
	Status  int              `json:"status"`
}

// Expand maps the given imgur url to direct image links. Albums resolve to
// every image they contain; page urls resolve to the corresponding
// i.imgur.com link. See media.Expander#Expand for API details.
func (e *Expander) Expand(ctx context.Context, u string) ([]string, error) {
	// Album.
	if strings.HasPrefix(u, "https://imgur.com/a/") {
		return e.albumLinks(ctx, u)
	}

	// Already a direct image link.
	if strings.HasPrefix(u, "https://i.imgur.com/") {
		return []string{u}, nil
	}

	// Alternate image url format:
	//     https://imgur.com/<image_id>
	imageID := strings.TrimPrefix(u, "https://imgur.com/")
	if imageID != u && len(imageID) == 7 {
		return []string{"https://i.imgur.com/" + imageID + ".jpeg"}, nil
	}

	return nil, nil
}

// albumLinks reads the imgur album at the specified url and returns the urls
// of all its images.
func (e *Expander) albumLinks(ctx context.Context, u string) ([]string, error) {
	log.Debugf("scanning imgur album: %s", u)

	hash := strings.TrimPrefix(u, "https://imgur.com/a/")
	if len(hash) < 7 {
		return nil, fmt.Errorf("imgur album hash length too short: have=%d want=7 hash=%s", len(hash), hash)
	}
	if len(hash) > 7 {
		log.Debugf("removing imgur album prefix: %s --> %s", hash, hash[len(hash)-7:])
		hash = hash[len(hash)-7:]
	}

	b, err := e.apiGet(ctx, e.apiBase+"/album/"+hash)
	if err != nil {
		return nil, err
	}

	aidw := &albumInfoDataWrapper{}
	err = json.Unmarshal(b, aidw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode album info: %w", err)
	}

	if !aidw.Success {
		return nil, fmt.Errorf("album info response has success=false")
	}

	var links []string
	for _, img := range aidw.AI.Images {
		log.Debugf("detected imgur album image link: %s", img.Link)
		links = append(links, img.Link)
	}

	return links, nil
}

// apiGet performs an authenticated GET against the imgur API and returns the
// full response body.
func (e *Expander) apiGet(ctx context.Context, u string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)

	rsp, err := e.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return nil, fmt.Errorf("error status: %s", rsp.Status)
	}

	return io.ReadAll(rsp.Body)
}
