// Package main runs the CTF writeups browser, either as a website or as an
// MCP server.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ctf-writeups",
		Short: "Browse CTF writeups stored in a GitHub repository",
		Long: `ctf-writeups publishes a collection of Capture The Flag writeups kept as
markdown files in a GitHub repository. Each top-level folder is a platform and
each .md file inside it is a writeup.

The same content can be served as a website or exposed to MCP-compatible
AI harnesses over stdio.`,
		Example:      "ctf-writeups serve --addr :8080\nGITHUB_OWNER=me ctf-writeups mcp",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default ./ctf-writeups.yaml if present)")

	cmd.AddCommand(
		newServeCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return cmd
}
