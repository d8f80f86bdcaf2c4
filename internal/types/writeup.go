package types

type (
	// WriteupMetadata is the structured header of a writeup. Recognized fields
	// are always populated; anything else in the header lands in Extra.
	WriteupMetadata struct {
		Title      string         `json:"title"`
		Difficulty string         `json:"difficulty"`
		Tags       []string       `json:"tags"`
		Platform   string         `json:"platform"`
		Date       string         `json:"date"`
		Author     string         `json:"author"`
		Extra      map[string]any `json:"extra,omitempty"`
	}

	// ParsedDocument is a markdown document split into metadata and body.
	ParsedDocument struct {
		Metadata WriteupMetadata `json:"metadata"`
		Body     string          `json:"body"`
	}

	// WriteupListing pairs a listed writeup with its metadata. Metadata is nil
	// when the file could not be fetched or parsed.
	WriteupListing struct {
		Entry    RepositoryEntry  `json:"entry"`
		Metadata *WriteupMetadata `json:"metadata,omitempty"`
	}

	// WriteupSummary is what a platform page shows for one writeup.
	WriteupSummary struct {
		Name     string           `json:"name"`
		Slug     string           `json:"slug"`
		Title    string           `json:"title"`
		Metadata *WriteupMetadata `json:"metadata,omitempty"`
	}

	// WriteupDetail is a fully parsed writeup ready for display.
	WriteupDetail struct {
		Platform string          `json:"platform"`
		Slug     string          `json:"slug"`
		Title    string          `json:"title"`
		Metadata WriteupMetadata `json:"metadata"`
		Body     string          `json:"body"`
	}
)

// NewWriteupMetadata returns metadata with every recognized field set to its
// empty default.
func NewWriteupMetadata() WriteupMetadata {
	return WriteupMetadata{
		Tags:  []string{},
		Extra: map[string]any{},
	}
}
