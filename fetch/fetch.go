// Package fetch implements the image download pipeline: URL validation,
// header inspection, image-type verification, content-hash deduplication, and
// safe persistence to a local directory.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccollins476ad/imgfetch/dedup"
	"github.com/ccollins476ad/imgfetch/fileutil"
	log "github.com/sirupsen/logrus"
)

// Fetcher downloads images and saves them to a destination directory. It owns
// its http client and refers to a dedup index shared by all of its fetches;
// construct one per output directory.
type Fetcher struct {
	destDir string // constant

	hc      *http.Client
	index   *dedup.Index
	timeout time.Duration // Bounds each request and body read.

	now func() time.Time // Clock used for synthesized filenames.
}

func New(destDir string, index *dedup.Index) *Fetcher {
	return &Fetcher{
		destDir: destDir,
		hc:      &http.Client{},
		index:   index,
		timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// DestDir returns the fetcher's destination directory.
func (f *Fetcher) DestDir() string {
	return f.destDir
}

// Fetch downloads the image at the given url and saves it to the fetcher's
// destination directory. Every failure mode is captured in the returned
// outcome; no error escapes, and a failure never leaves a partial file
// behind. Advisory header warnings are carried in the outcome even when a
// later step fails.
func (f *Fetcher) Fetch(ctx context.Context, u string) Outcome {
	out := Outcome{URL: u}

	if err := ValidateURL(u); err != nil {
		return failure(out, KindInvalidURL, err.Error())
	}

	rsp, cancel, err := get(ctx, f.hc, u, f.timeout)
	if err != nil {
		if isTimeout(err) {
			return failure(out, KindTimeout, "server took too long to respond")
		}
		return failure(out, KindConnection, fmt.Sprintf("unable to reach server: %v", err))
	}
	defer cancel()
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		out.Status = rsp.StatusCode
		return failure(out, KindHTTPStatus, fmt.Sprintf("error status: %s", rsp.Status))
	}

	contentType := strings.ToLower(rsp.Header.Get("Content-Type"))

	out.Warnings = CheckHeaders(contentType, rsp.ContentLength, rsp.Header.Get("Content-Disposition"))
	for _, w := range out.Warnings {
		log.Debugf("%s: %s", u, w)
	}

	if !strings.HasPrefix(contentType, "image/") {
		return failure(out, KindNotAnImage,
			fmt.Sprintf("not an image file (content-type: %s)", contentType))
	}

	b, err := readBody(ctx, rsp.Body)
	if err != nil {
		if isTimeout(err) {
			return failure(out, KindTimeout, "server took too long to respond")
		}
		return failure(out, KindUnexpected, fmt.Sprintf("failed to read response: %v", err))
	}

	if f.index.CheckAndInsert(b) {
		return failure(out, KindDuplicate, "duplicate image detected")
	}

	if err := fileutil.EnsureDir(f.destDir); err != nil {
		return fsFailure(out, f.destDir, err)
	}

	destPath, err := f.write(u, contentType, b)
	if err != nil {
		return fsFailure(out, f.destDir, err)
	}

	log.Infof("saved %s", destPath)

	out.Success = true
	out.SavedPath = destPath
	out.SizeBytes = len(b)
	return out
}

// write derives a collision-free filename for the content and writes it to a
// new file. Names are claimed with an exclusive create; losing a naming race
// to a concurrent fetch just moves on to the next free suffix.
func (f *Fetcher) write(u, contentType string, b []byte) (string, error) {
	names := fileutil.ListNames(f.destDir)
	taken := func(name string) bool {
		if _, ok := names[name]; ok {
			return true
		}
		return fileutil.FileExists(filepath.Join(f.destDir, name))
	}

	for {
		filename := DeriveFilename(u, contentType, f.now(), taken)
		destPath := filepath.Join(f.destDir, filename)

		err := fileutil.WriteExclusive(destPath, b)
		if err == nil {
			return destPath, nil
		}
		if os.IsExist(err) {
			names[filename] = struct{}{}
			continue
		}
		return "", err
	}
}

func failure(out Outcome, kind ErrorKind, detail string) Outcome {
	out.Kind = kind
	out.Detail = detail
	return out
}

func fsFailure(out Outcome, dir string, err error) Outcome {
	if os.IsPermission(err) {
		return failure(out, KindFilesystem, "permission denied - cannot write to "+dir)
	}
	return failure(out, KindFilesystem, err.Error())
}
