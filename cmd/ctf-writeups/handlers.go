package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/ctf-writeups/internal/types"
)

type writeupService interface {
	Platforms(ctx context.Context) ([]types.Platform, error)
	Writeups(ctx context.Context, platform string) ([]types.WriteupSummary, error)
	Detail(ctx context.Context, platform, slug string) (types.WriteupDetail, error)
}

type handlers struct {
	service writeupService
}

func newHandlers(service writeupService) *handlers {
	return &handlers{service: service}
}

func (h *handlers) handlePlatforms(ctx context.Context, _ *mcp.CallToolRequest, _ PlatformsInput) (*mcp.CallToolResult, PlatformsOutput, error) {
	platforms, err := h.service.Platforms(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, PlatformsOutput{}, err
	}
	if platforms == nil {
		platforms = []types.Platform{}
	}
	return nil, PlatformsOutput{Platforms: platforms}, nil
}

func (h *handlers) handleWriteups(ctx context.Context, _ *mcp.CallToolRequest, input WriteupsInput) (*mcp.CallToolResult, WriteupsOutput, error) {
	platform := strings.Trim(strings.TrimSpace(input.Platform), "/")
	if platform == "" {
		return &mcp.CallToolResult{IsError: true}, WriteupsOutput{}, fmt.Errorf("platform is required")
	}

	summaries, err := h.service.Writeups(ctx, platform)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, WriteupsOutput{Platform: platform}, err
	}
	if summaries == nil {
		summaries = []types.WriteupSummary{}
	}
	return nil, WriteupsOutput{Platform: platform, Writeups: summaries}, nil
}

func (h *handlers) handleWriteup(ctx context.Context, _ *mcp.CallToolRequest, input WriteupInput) (*mcp.CallToolResult, WriteupOutput, error) {
	platform := strings.Trim(strings.TrimSpace(input.Platform), "/")
	slug := strings.TrimSuffix(strings.TrimSpace(input.Writeup), ".md")
	if platform == "" || slug == "" {
		return &mcp.CallToolResult{IsError: true}, WriteupOutput{}, fmt.Errorf("platform and writeup are required")
	}

	detail, err := h.service.Detail(ctx, platform, slug)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, WriteupOutput{}, err
	}

	lines := strings.Split(detail.Body, "\n")
	totalLines := len(lines)

	offset := max(input.Offset, 0)
	if offset >= totalLines {
		return nil, WriteupOutput{
			Title:      detail.Title,
			Metadata:   detail.Metadata,
			Content:    "",
			TotalLines: totalLines,
			Truncated:  true,
		}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = totalLines
	}

	endIdx := offset + limit
	truncated := false
	if endIdx >= totalLines {
		endIdx = totalLines
	} else {
		truncated = true
	}

	return nil, WriteupOutput{
		Title:      detail.Title,
		Metadata:   detail.Metadata,
		Content:    strings.Join(lines[offset:endIdx], "\n"),
		TotalLines: totalLines,
		Truncated:  truncated,
	}, nil
}
