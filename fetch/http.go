package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds a request and its body read unless the fetcher
	// is configured otherwise.
	DefaultTimeout = 30 * time.Second

	userAgent = "imgfetch/1.0 (respectful community tool)"
)

// get performs an http GET with url=u using the supplied client. The request
// and any subsequent body read are bounded by the given timeout; the caller
// must invoke the returned cancel func once it is done with the response
// body.
func get(ctx context.Context, hc *http.Client, u string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	log.Debugf("get: %s", u)

	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	rsp, err := hc.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	return rsp, cancel, nil
}

// isTimeout returns true if the given request or read error indicates that
// the server took too long, as opposed to being unreachable.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Timeout()
	}

	return false
}

// readBody fully materializes the given response body, respecting ctx.
func readBody(ctx context.Context, body io.Reader) ([]byte, error) {
	return io.ReadAll(&contextReader{ctx: ctx, r: body})
}

// contextReader wraps a reader so that reads fail once the embedded context
// finishes. It orphans an active read in a separate goroutine if the context
// finishes early.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	type result struct {
		n   int
		err error
	}

	resultChan := make(chan result, 1)

	go func() {
		defer close(resultChan)
		n, err := cr.r.Read(p)
		resultChan <- result{n, err}
	}()

	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	case res := <-resultChan:
		return res.n, res.err
	}
}
