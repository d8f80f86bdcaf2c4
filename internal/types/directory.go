package types

type (
	// PathFilterConfig contains configuration for the path filter.
	PathFilterConfig struct {
		IgnoredPatterns   []string `json:"ignoredPatterns" mapstructure:"ignore"`
		AllowedExtensions []string `json:"allowedExtensions" mapstructure:"extensions"`
	}
)
