package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	OutDir  string        // Destination directory to save images to.
	URLFile string        // Optional path of a text file containing URLs.
	Verbose bool          // True for verbose output.
	Jobs    int           // Number of fetches to run in parallel.
	Delay   time.Duration // Pause between consecutive requests.
	URLs    []string      // URLs given as positional arguments.
}

func parseArgs() (*Config, error) {
	outDir := flag.String("o", "Fetched_Images", "output directory")
	urlFile := flag.String("f", "", "text file containing URLs to fetch")
	verbose := flag.Bool("v", false, "verbose output")
	jobs := flag.Int("j", 1, "jobs")
	delay := flag.Duration("delay", time.Second, "delay between requests")

	flag.Usage = usage
	flag.Parse()

	if *jobs < 1 {
		return nil, fmt.Errorf("jobs must be at least 1")
	}

	return &Config{
		OutDir:  *outDir,
		URLFile: *urlFile,
		Verbose: *verbose,
		Jobs:    *jobs,
		Delay:   *delay,
		URLs:    flag.Args(),
	}, nil
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [option]... [url]...\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(flag.CommandLine.Output(), "Fetches images from the web and saves them to a local directory.\n")
	fmt.Fprintf(flag.CommandLine.Output(), "With no urls and no -f file, urls are read from standard input.\n")
	flag.PrintDefaults()
}
