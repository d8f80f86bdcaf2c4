package main

import (
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/taigrr/ctf-writeups/internal/config"
	"github.com/taigrr/ctf-writeups/internal/github"
	"github.com/taigrr/ctf-writeups/internal/listing"
	"github.com/taigrr/ctf-writeups/internal/logging"
	"github.com/taigrr/ctf-writeups/internal/pathfilter"
	"github.com/taigrr/ctf-writeups/internal/writeups"
)

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newService wires the GitHub client, the listing aggregator and the writeup
// service. A nil root logger silences every module.
func newService(cfg config.Config, root *glog.BaseLogger) *writeups.Service {
	client := github.New(cfg.GitHub,
		github.WithTimeout(cfg.Timeout),
		github.WithCacheTTL(cfg.CacheTTL),
		github.WithPathFilter(pathfilter.New(&cfg.Filter)),
		github.WithLogger(logging.Named(root, logging.GitHub)),
	)

	aggregator := listing.New(client,
		listing.WithConcurrency(cfg.Concurrency),
		listing.WithLogger(logging.Named(root, logging.Listing)),
	)

	return writeups.New(client, aggregator)
}
