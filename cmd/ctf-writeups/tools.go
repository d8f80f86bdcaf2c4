package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/ctf-writeups/internal/types"
)

type (
	// PlatformsInput takes no parameters.
	PlatformsInput struct{}

	// PlatformsOutput lists the platforms of the repository.
	PlatformsOutput struct {
		Platforms []types.Platform `json:"platforms"`
	}

	// WriteupsInput selects a platform.
	WriteupsInput struct {
		Platform string `json:"platform" jsonschema:"Platform folder name, as returned by the platforms tool"`
	}

	// WriteupsOutput lists the writeups of a platform.
	WriteupsOutput struct {
		Platform string                 `json:"platform"`
		Writeups []types.WriteupSummary `json:"writeups"`
	}

	// WriteupInput contains parameters for reading a writeup.
	WriteupInput struct {
		Platform string `json:"platform" jsonschema:"Platform folder name"`
		Writeup  string `json:"writeup" jsonschema:"Writeup slug: the file name without .md"`
		Offset   int    `json:"offset,omitempty" jsonschema:"Line offset to start reading from (default: 0)"`
		Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of lines to return (default: all)"`
	}

	// WriteupOutput contains the result of reading a writeup.
	WriteupOutput struct {
		Title      string                `json:"title"`
		Metadata   types.WriteupMetadata `json:"metadata"`
		Content    string                `json:"content"`
		TotalLines int                   `json:"totalLines"`
		Truncated  bool                  `json:"truncated,omitempty"`
	}
)

func registerTools(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "platforms",
		Description: "List the CTF platforms (top-level folders) that have writeups.",
	}, h.handlePlatforms)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "writeups",
		Description: "List the writeups of a platform with title, difficulty, date and tags when the writeup declares them.",
	}, h.handleWriteups)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "writeup",
		Description: "Read a writeup. Returns its metadata and markdown body. Supports pagination with offset/limit for long writeups.",
	}, h.handleWriteup)
}
