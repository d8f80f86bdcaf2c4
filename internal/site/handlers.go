package site

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/taigrr/ctf-writeups/internal/github"
	"github.com/taigrr/ctf-writeups/internal/uri"
)

const siteTitle = "CTF Writeups"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view := homeView{page: page{Title: siteTitle}}

	platforms, err := s.service.Platforms(r.Context())
	if err != nil {
		s.logger.Error("failed to load platforms", "error", err, "request_id", RequestID(r.Context()))
		view.Error = err.Error()
		s.renderPage(w, pageHome, errorStatus(err), view)
		return
	}

	view.Platforms = make([]platformCard, 0, len(platforms))
	for _, p := range platforms {
		view.Platforms = append(view.Platforms, newPlatformCard(p))
	}
	s.renderPage(w, pageHome, http.StatusOK, view)
}

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")
	view := platformView{
		page:        page{Title: strings.ToUpper(platform) + " | " + siteTitle},
		Platform:    platform,
		DisplayName: strings.ToUpper(platform),
	}

	summaries, err := s.service.Writeups(r.Context(), platform)
	if err != nil {
		s.logger.Error("failed to load writeups", "platform", platform, "error", err, "request_id", RequestID(r.Context()))
		view.Error = err.Error()
		view.CountLabel = CountLabel(0)
		s.renderPage(w, pagePlatform, errorStatus(err), view)
		return
	}

	view.CountLabel = CountLabel(len(summaries))
	view.Writeups = make([]writeupCard, 0, len(summaries))
	for _, summary := range summaries {
		view.Writeups = append(view.Writeups, newWriteupCard(platform, summary))
	}
	s.renderPage(w, pagePlatform, http.StatusOK, view)
}

func (s *Server) handleWriteup(w http.ResponseWriter, r *http.Request) {
	platform := r.PathValue("platform")
	slug := r.PathValue("writeup")
	view := writeupView{
		page:      page{Title: siteTitle},
		Platform:  platform,
		BackURL:   uri.PageURL(platform),
		BackLabel: "Back to " + strings.ToUpper(platform),
	}

	detail, err := s.service.Detail(r.Context(), platform, slug)
	if err != nil {
		s.logger.Error("failed to load writeup", "platform", platform, "writeup", slug, "error", err, "request_id", RequestID(r.Context()))
		view.Error = err.Error()
		s.renderPage(w, pageWriteup, errorStatus(err), view)
		return
	}

	doc, err := s.renderer.Render(detail.Body)
	if err != nil {
		s.logger.Error("failed to render writeup", "platform", platform, "writeup", slug, "error", err)
		view.Error = err.Error()
		s.renderPage(w, pageWriteup, http.StatusInternalServerError, view)
		return
	}

	view.Title = detail.Title + " | " + siteTitle
	view.Heading = detail.Title
	view.Metadata = detail.Metadata
	if detail.Metadata.Difficulty != "" {
		view.DifficultyClass = DifficultyClass(detail.Metadata.Difficulty)
	}
	view.Content = doc.HTML
	view.TOC = doc.TOC
	s.renderPage(w, pageWriteup, http.StatusOK, view)
}

// renderPage executes the named page into a buffer so a template failure can
// still produce a clean 500.
func (s *Server) renderPage(w http.ResponseWriter, name string, status int, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("failed to execute template", "page", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == http.StatusOK && s.cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cacheTTL.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// errorStatus maps a service failure to a response status. GitHub being
// unreachable or unhappy is a bad gateway; a missing writeup is a 404.
func errorStatus(err error) int {
	if github.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
