// Package writeups is the read-only interface the site and the MCP tools
// use to browse platforms and writeups.
package writeups

import (
	"context"
	"fmt"
	"strings"

	"github.com/taigrr/ctf-writeups/internal/frontmatter"
	"github.com/taigrr/ctf-writeups/internal/pathfilter"
	"github.com/taigrr/ctf-writeups/internal/types"
)

// Repository is the remote side of the service.
type Repository interface {
	ListPlatforms(ctx context.Context) ([]types.RepositoryEntry, error)
	FetchWriteup(ctx context.Context, platform, name string) (string, error)
	PathFilter() *pathfilter.PathFilter
}

// Lister pairs writeups with their metadata.
type Lister interface {
	ListWriteupsWithMetadata(ctx context.Context, platform string) ([]types.WriteupListing, error)
}

// Service answers the three browsing questions: which platforms exist,
// which writeups a platform has, and what a writeup says.
type Service struct {
	repo   Repository
	lister Lister
	parser *frontmatter.Handler
}

// New creates a Service.
func New(repo Repository, lister Lister) *Service {
	return &Service{
		repo:   repo,
		lister: lister,
		parser: frontmatter.New(),
	}
}

// Platforms returns the top-level platform folders in listing order.
func (s *Service) Platforms(ctx context.Context) ([]types.Platform, error) {
	entries, err := s.repo.ListPlatforms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}

	platforms := make([]types.Platform, 0, len(entries))
	for _, e := range entries {
		platforms = append(platforms, types.Platform{Name: e.Name})
	}
	return platforms, nil
}

// Writeups returns the writeups of platform with their display titles.
func (s *Service) Writeups(ctx context.Context, platform string) ([]types.WriteupSummary, error) {
	listings, err := s.lister.ListWriteupsWithMetadata(ctx, platform)
	if err != nil {
		return nil, err
	}

	pf := s.repo.PathFilter()
	summaries := make([]types.WriteupSummary, 0, len(listings))
	for _, l := range listings {
		slug := pf.TrimExtension(l.Entry.Name)
		summaries = append(summaries, types.WriteupSummary{
			Name:     l.Entry.Name,
			Slug:     slug,
			Title:    summaryTitle(l.Metadata, slug),
			Metadata: l.Metadata,
		})
	}
	return summaries, nil
}

// Writeup returns the raw markdown of a writeup.
func (s *Service) Writeup(ctx context.Context, platform, slug string) (string, error) {
	return s.repo.FetchWriteup(ctx, platform, slug)
}

// Detail fetches a writeup and splits it into metadata and body.
func (s *Service) Detail(ctx context.Context, platform, slug string) (types.WriteupDetail, error) {
	raw, err := s.Writeup(ctx, platform, slug)
	if err != nil {
		return types.WriteupDetail{}, err
	}

	doc := s.parser.Parse(raw)
	return types.WriteupDetail{
		Platform: platform,
		Slug:     slug,
		Title:    frontmatter.Title(doc.Metadata, doc.Body),
		Metadata: doc.Metadata,
		Body:     doc.Body,
	}, nil
}

// summaryTitle prefers the header title and falls back to the slug with
// dashes read as spaces.
func summaryTitle(meta *types.WriteupMetadata, slug string) string {
	if meta != nil && meta.Title != "" {
		return meta.Title
	}
	return strings.ReplaceAll(slug, "-", " ")
}
