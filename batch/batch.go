// Package batch runs the fetch pipeline over a list of URLs, pacing requests
// so remote servers aren't hammered.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/ccollins476ad/imgfetch/fetch"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultDelay is the pause inserted between consecutive requests.
const DefaultDelay = time.Second

// Summary aggregates the results of a batch run.
type Summary struct {
	Total      int
	Successful int
	Failed     int
	OutputDir  string
}

// Runner executes fetches over a list of URLs. Fetches run sequentially in
// input order unless Jobs is greater than one.
type Runner struct {
	Fetcher *fetch.Fetcher
	Delay   time.Duration       // Pacing between requests; DefaultDelay if zero.
	Jobs    int                 // Number of fetches to run in parallel; 1 if zero.
	Report  func(fetch.Outcome) // Called once per outcome; optional.
}

// Run fetches every URL in the given slice and returns aggregate counts. An
// individual failure never aborts the batch; the runner does not interpret
// failure kinds beyond counting them.
func (r *Runner) Run(ctx context.Context, urls []string) Summary {
	summary := Summary{
		Total:     len(urls),
		OutputDir: r.Fetcher.DestDir(),
	}

	if len(urls) == 0 {
		log.Info("no URLs provided")
		return summary
	}

	delay := r.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = 1
	}

	// Burst 1 makes the first request immediate and spaces out the rest, so
	// no delay trails the final request.
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	// The mutex also serializes the Report callback so outcomes are reported
	// one at a time in concurrent mode.
	var mtx sync.Mutex
	record := func(out fetch.Outcome) {
		mtx.Lock()
		defer mtx.Unlock()

		if r.Report != nil {
			r.Report(out)
		}
		if out.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}

	fetchOne := func(u string) {
		if err := limiter.Wait(ctx); err != nil {
			record(fetch.Outcome{URL: u, Kind: fetch.KindUnexpected, Detail: err.Error()})
			return
		}
		record(r.Fetcher.Fetch(ctx, u))
	}

	if jobs == 1 {
		for _, u := range urls {
			fetchOne(u)
		}
		return summary
	}

	g := &errgroup.Group{}
	urlChan := make(chan string)

	// Create a set of goroutines that read urls from the channel and fetch
	// them until the channel closes. The shared limiter still paces them, and
	// the dedup index serializes its own check-and-insert.
	for i := 0; i < jobs; i++ {
		g.Go(func() error {
			for u := range urlChan {
				fetchOne(u)
			}
			return nil
		})
	}

feed:
	for i, u := range urls {
		select {
		case <-ctx.Done():
			// Batch aborted; count the URLs that were never handed to a
			// worker so the summary still adds up to Total.
			for _, skipped := range urls[i:] {
				record(fetch.Outcome{URL: skipped, Kind: fetch.KindUnexpected, Detail: ctx.Err().Error()})
			}
			break feed
		case urlChan <- u:
		}
	}
	close(urlChan)

	// Workers never return an error; Wait is just the join point.
	_ = g.Wait()

	return summary
}
