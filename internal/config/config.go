// Package config resolves the process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/taigrr/ctf-writeups/internal/types"
)

const (
	// DefaultOwner is the GitHub account holding the writeups.
	DefaultOwner = "Jairoy2426"
	// DefaultRepo is the repository holding the writeups.
	DefaultRepo = "ctf-writeups"
	// DefaultBranch is the branch raw content is read from.
	DefaultBranch = "main"

	DefaultAPIBaseURL = "https://api.github.com"
	DefaultRawBaseURL = "https://raw.githubusercontent.com"

	// DefaultCacheTTL mirrors the one hour revalidation window of the site.
	DefaultCacheTTL = time.Hour
	DefaultTimeout  = 30 * time.Second
	DefaultAddr     = ":3000"

	envPrefix  = "CTFW"
	configName = "ctf-writeups"
)

type (
	// Repository identifies the remote repository and the hosts serving it.
	Repository struct {
		Owner      string `mapstructure:"owner" validate:"required"`
		Repo       string `mapstructure:"repo" validate:"required"`
		Branch     string `mapstructure:"branch" validate:"required"`
		APIBaseURL string `mapstructure:"api_base_url" validate:"required,url"`
		RawBaseURL string `mapstructure:"raw_base_url" validate:"required,url"`
	}

	// Config is the immutable process configuration.
	Config struct {
		GitHub      Repository             `mapstructure:"github"`
		Filter      types.PathFilterConfig `mapstructure:"filter"`
		CacheTTL    time.Duration          `mapstructure:"cache_ttl"`
		Timeout     time.Duration          `mapstructure:"timeout"`
		Concurrency int                    `mapstructure:"concurrency" validate:"gte=0"`
		Addr        string                 `mapstructure:"addr" validate:"required"`
		LogLevel    string                 `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
		LogFormat   string                 `mapstructure:"log_format" validate:"oneof=console json pretty"`
		UnsafeHTML  bool                   `mapstructure:"unsafe_html"`
	}
)

// envBindings are the unprefixed variables the site has always honored.
var envBindings = map[string]string{
	"github.owner":  "GITHUB_OWNER",
	"github.repo":   "GITHUB_REPO",
	"github.branch": "GITHUB_BRANCH",
}

// Load resolves the configuration from defaults, an optional config file and
// the environment. An empty path looks for ./ctf-writeups.yaml and tolerates
// its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		GitHub: Repository{
			Owner:      DefaultOwner,
			Repo:       DefaultRepo,
			Branch:     DefaultBranch,
			APIBaseURL: DefaultAPIBaseURL,
			RawBaseURL: DefaultRawBaseURL,
		},
		CacheTTL:  DefaultCacheTTL,
		Timeout:   DefaultTimeout,
		Addr:      DefaultAddr,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("github.owner", d.GitHub.Owner)
	v.SetDefault("github.repo", d.GitHub.Repo)
	v.SetDefault("github.branch", d.GitHub.Branch)
	v.SetDefault("github.api_base_url", d.GitHub.APIBaseURL)
	v.SetDefault("github.raw_base_url", d.GitHub.RawBaseURL)
	v.SetDefault("filter.ignore", []string{})
	v.SetDefault("filter.extensions", []string{})
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("unsafe_html", d.UnsafeHTML)
}

// Validate checks that the configuration has usable values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config error: 'timeout' must be positive")
	}
	return nil
}
