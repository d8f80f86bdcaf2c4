package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/taigrr/ctf-writeups/internal/render"
	"github.com/taigrr/ctf-writeups/internal/types"
	"github.com/taigrr/ctf-writeups/internal/uri"
)

const (
	pageHome     = "home"
	pagePlatform = "platform"
	pageWriteup  = "writeup"

	cardTagLimit = 4
)

var difficultyClasses = map[string]string{
	"easy":   "difficulty-easy",
	"medium": "difficulty-medium",
	"hard":   "difficulty-hard",
	"insane": "difficulty-insane",
}

const defaultDifficultyClass = "difficulty-default"

var platformIcons = map[string]string{
	"htb":         "🎯",
	"hackthebox":  "🎯",
	"tryhackme":   "🔐",
	"picoctf":     "🏴",
	"vulnhub":     "💀",
	"overthewire": "🔓",
	"portswigger": "🕸️",
}

var platformDescriptions = map[string]string{
	"htb":         "Hack The Box challenges and machines",
	"hackthebox":  "Hack The Box challenges and machines",
	"tryhackme":   "TryHackMe rooms and learning paths",
	"picoctf":     "PicoCTF competition challenges",
	"vulnhub":     "VulnHub vulnerable VMs",
	"overthewire": "OverTheWire wargames",
	"portswigger": "Web Security Academy labs",
}

type (
	// page holds what the layout needs on every page.
	page struct {
		Title string
		Error string
	}

	platformCard struct {
		Name        string
		DisplayName string
		Icon        string
		Description string
		URL         string
	}

	writeupCard struct {
		Title           string
		URL             string
		Difficulty      string
		DifficultyClass string
		Date            string
		Tags            []string
		MoreTags        int
	}

	homeView struct {
		page
		Platforms []platformCard
	}

	platformView struct {
		page
		Platform    string
		DisplayName string
		CountLabel  string
		Writeups    []writeupCard
	}

	writeupView struct {
		page
		Platform        string
		BackURL         string
		BackLabel       string
		Heading         string
		Metadata        types.WriteupMetadata
		DifficultyClass string
		Content         template.HTML
		TOC             []render.Heading
	}
)

// DifficultyClass maps a difficulty to its badge class, case-insensitively.
func DifficultyClass(difficulty string) string {
	if class, ok := difficultyClasses[strings.ToLower(difficulty)]; ok {
		return class
	}
	return defaultDifficultyClass
}

// CountLabel pluralizes a writeup count.
func CountLabel(n int) string {
	if n == 1 {
		return "1 writeup"
	}
	return fmt.Sprintf("%d writeups", n)
}

func newPlatformCard(p types.Platform) platformCard {
	key := strings.ToLower(p.Name)

	icon, ok := platformIcons[key]
	if !ok {
		icon = "📁"
	}
	description, ok := platformDescriptions[key]
	if !ok {
		description = "CTF challenges and writeups"
	}

	return platformCard{
		Name:        p.Name,
		DisplayName: strings.ToUpper(p.Name),
		Icon:        icon,
		Description: description,
		URL:         uri.PageURL(p.Name),
	}
}

func newWriteupCard(platform string, w types.WriteupSummary) writeupCard {
	card := writeupCard{
		Title: w.Title,
		URL:   uri.PageURL(platform, w.Slug),
	}
	if w.Metadata == nil {
		return card
	}

	card.Difficulty = w.Metadata.Difficulty
	card.DifficultyClass = DifficultyClass(w.Metadata.Difficulty)
	card.Date = w.Metadata.Date

	tags := w.Metadata.Tags
	if len(tags) > cardTagLimit {
		card.MoreTags = len(tags) - cardTagLimit
		tags = tags[:cardTagLimit]
	}
	card.Tags = tags
	return card
}
