// Package listing combines a platform's writeup listing with the metadata
// of each writeup.
package listing

import (
	"context"
	"fmt"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/taigrr/ctf-writeups/internal/frontmatter"
	"github.com/taigrr/ctf-writeups/internal/logging"
	"github.com/taigrr/ctf-writeups/internal/types"
	"golang.org/x/sync/errgroup"
)

// Source lists writeups and fetches their content.
type Source interface {
	ListWriteups(ctx context.Context, platform string) ([]types.RepositoryEntry, error)
	FetchFileBytes(ctx context.Context, path string) (string, error)
}

// Aggregator fetches every writeup of a platform and parses its header.
type Aggregator struct {
	source      Source
	parser      *frontmatter.Handler
	logger      glog.Logger
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency caps the number of in-flight fetches. Zero or less means
// no cap.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithLogger sets the aggregator logger.
func WithLogger(l glog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logging.OrNop(l)
	}
}

// New creates an Aggregator reading from source.
func New(source Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source: source,
		parser: frontmatter.New(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListWriteupsWithMetadata returns the writeups of platform in listing order,
// each paired with its parsed metadata. A writeup whose content cannot be
// fetched keeps its place with nil metadata; only a failed listing fails the
// call.
func (a *Aggregator) ListWriteupsWithMetadata(ctx context.Context, platform string) ([]types.WriteupListing, error) {
	entries, err := a.source.ListWriteups(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to list writeups for %q: %w", platform, err)
	}

	results := make([]types.WriteupListing, len(entries))

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	for i, entry := range entries {
		g.Go(func() error {
			results[i] = a.withMetadata(ctx, entry)
			return nil
		})
	}

	// Per-entry failures are folded into results, so Wait never reports one.
	_ = g.Wait()

	return results, nil
}

func (a *Aggregator) withMetadata(ctx context.Context, entry types.RepositoryEntry) (result types.WriteupListing) {
	result.Entry = entry

	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("writeup metadata unavailable", "path", entry.Path, "panic", r)
			result.Metadata = nil
		}
	}()

	content, err := a.source.FetchFileBytes(ctx, entry.Path)
	if err != nil {
		a.logger.Warn("writeup metadata unavailable", "path", entry.Path, "error", err)
		return result
	}

	meta := a.parser.Parse(content).Metadata
	result.Metadata = &meta
	return result
}
