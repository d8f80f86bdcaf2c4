// Package render turns writeup markdown into HTML and a table of contents.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options configures a Renderer.
type Options struct {
	// Unsafe passes raw HTML in the markdown through to the output.
	Unsafe bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
}

// Heading is one entry of a table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Document is rendered markdown.
type Document struct {
	HTML template.HTML
	TOC  []Heading
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
			extension.Footnote,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	return &Renderer{engine: goldmark.New(engineOptions...)}
}

// Render converts markdown into HTML and collects its h2 and h3 headings.
func (r *Renderer) Render(markdown string) (Document, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(markdown), &buf); err != nil {
		return Document{}, fmt.Errorf("markdown render: %w", err)
	}

	toc, err := tableOfContents(buf.String())
	if err != nil {
		return Document{}, err
	}

	return Document{
		HTML: template.HTML(buf.String()),
		TOC:  toc,
	}, nil
}

func tableOfContents(rendered string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("table of contents: %w", err)
	}

	toc := []Heading{}
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		toc = append(toc, Heading{
			Level: level,
			ID:    id,
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return toc, nil
}
