package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/ccollins476ad/imgfetch/batch"
	"github.com/ccollins476ad/imgfetch/dedup"
	"github.com/ccollins476ad/imgfetch/fetch"
	"github.com/ccollins476ad/imgfetch/media"
	"github.com/ccollins476ad/imgfetch/media/imgur"
	"github.com/ccollins476ad/imgfetch/urlscan"
	log "github.com/sirupsen/logrus"
)

func printFatalError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func main() {
	cfg, err := parseArgs()
	if err != nil {
		printFatalError(err)
		flag.Usage()
		os.Exit(1)
	}

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	urls, err := collectURLs(cfg)
	if err != nil {
		printFatalError(err)
		os.Exit(2)
	}

	ctx := context.Background()

	// Expand urls that point at media pages (e.g., imgur albums) into the
	// direct image urls behind them.
	expanders := []media.Expander{
		imgur.NewExpander(&http.Client{}),
	}
	urls = media.ExpandAll(ctx, expanders, urls)

	// Hash whatever is already in the output directory so re-running the
	// tool doesn't save the same images again.
	idx := dedup.New()
	if n := idx.SeedFromDir(cfg.OutDir); n > 0 {
		log.Debugf("seeded dedup index with %d existing files", n)
	}

	runner := &batch.Runner{
		Fetcher: fetch.New(cfg.OutDir, idx),
		Delay:   cfg.Delay,
		Jobs:    cfg.Jobs,
		Report:  printOutcome,
	}

	printSummary(runner.Run(ctx, urls))
}

// collectURLs gathers the urls to fetch from positional arguments, the -f
// file, or standard input, in that order of preference.
func collectURLs(cfg *Config) ([]string, error) {
	if len(cfg.URLs) > 0 {
		return cfg.URLs, nil
	}

	if cfg.URLFile != "" {
		return urlscan.FromFile(cfg.URLFile)
	}

	fmt.Println("Enter image URLs (one per line, empty line to finish):")

	var urls []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		urls = append(urls, urlscan.Extract(line)...)
	}

	return urls, scanner.Err()
}

// printOutcome reports a single fetch result to the user. Warnings are shown
// even when the fetch later failed.
func printOutcome(out fetch.Outcome) {
	for _, w := range out.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if out.Success {
		fmt.Printf("saved %s (%.1f KB)\n", out.SavedPath, out.SizeKB())
		return
	}

	fmt.Printf("failed %s: %s: %s\n", out.URL, out.Kind, out.Detail)
}

func printSummary(s batch.Summary) {
	fmt.Println()
	fmt.Println("batch download summary")
	fmt.Printf("  total:      %d\n", s.Total)
	fmt.Printf("  successful: %d\n", s.Successful)
	fmt.Printf("  failed:     %d\n", s.Failed)
	fmt.Printf("  saved in:   %s\n", s.OutputDir)
}
