// Package config loads sitegen.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultFilename is the configuration file looked up when none is given.
const DefaultFilename = "sitegen.yaml"

// Config is the complete sitegen configuration.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Paths     PathsConfig     `yaml:"paths"`
	Templates TemplatesConfig `yaml:"templates"`
	Listing   ListingConfig   `yaml:"listing"`
	Home      HomeConfig      `yaml:"home"`
	Build     BuildConfig     `yaml:"build"`
	Watch     WatchConfig     `yaml:"watch"`
	Serve     ServeConfig     `yaml:"serve"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// SiteConfig is the site identity exposed to templates as site.*.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Owner       string `yaml:"owner"` // default page.author
	Description string `yaml:"description,omitempty"`
}

// PathsConfig locates the inputs and the output tree. Relative paths are
// resolved against the directory of the configuration file.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Templates string `yaml:"templates"`
	Output    string `yaml:"output"`
}

// TemplatesConfig names the template used for each kind of page.
type TemplatesConfig struct {
	Post    string `yaml:"post"`
	Page    string `yaml:"page"`
	Listing string `yaml:"listing"`
	Home    string `yaml:"home"`
	// Pages maps reserved page slugs to dedicated templates.
	Pages map[string]string `yaml:"pages"`
}

// PageTemplate returns the template for a page slug.
func (t TemplatesConfig) PageTemplate(slug string) string {
	if name, ok := t.Pages[slug]; ok && name != "" {
		return name
	}
	return t.Page
}

// ListingConfig configures the blog index.
type ListingConfig struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	EmptyMessage string `yaml:"empty_message"`
}

// HomeConfig configures the home page.
type HomeConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	VerifyLinks *bool `yaml:"verify_links,omitempty"`
	// ExternalPrefixes are output paths produced outside the build; links
	// into them are not verified.
	ExternalPrefixes []string `yaml:"external_prefixes,omitempty"`
	// HistoryDB is the SQLite build history path. Empty disables history.
	HistoryDB string `yaml:"history_db,omitempty"`
}

// LinkVerification reports whether the verify_links stage runs.
func (b BuildConfig) LinkVerification() bool { return b.VerifyLinks == nil || *b.VerifyLinks }

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce"`
	RequeueDelay time.Duration `yaml:"requeue_delay"`
	// Schedule is an optional cron expression for periodic rebuilds.
	Schedule string `yaml:"schedule,omitempty"`
}

// ServeConfig tunes the preview server.
type ServeConfig struct {
	Port       int   `yaml:"port"`
	LiveReload *bool `yaml:"live_reload,omitempty"`
	Metrics    *bool `yaml:"metrics,omitempty"`
}

// LiveReloadEnabled reports whether pages get the live reload script.
func (s ServeConfig) LiveReloadEnabled() bool { return s.LiveReload == nil || *s.LiveReload }

// MetricsEnabled reports whether /metrics is served.
func (s ServeConfig) MetricsEnabled() bool { return s.Metrics == nil || *s.Metrics }

// NotifyConfig configures build event publishing. Empty NATSURL disables it.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Default returns the configuration used when no file exists, rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	resolvePaths(cfg, dir)
	return cfg
}

// Load reads, expands, defaults and validates the configuration file.
// ${VAR} references are expanded from the environment after .env files next
// to the configuration have been loaded.
func Load(path string) (*Config, error) {
	dir := filepath.Dir(path)
	loadEnvFiles(dir)

	// #nosec G304 -- path is supplied by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("file", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("file", path).
			Build()
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			Fatal().
			WithContext("file", path).
			Build()
	}

	applyDefaults(&cfg)
	resolvePaths(&cfg, dir)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default rooted
// at the directory of path otherwise.
func LoadOrDefault(path string) (*Config, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		dir := filepath.Dir(path)
		loadEnvFiles(dir)
		cfg := Default(dir)
		return cfg, false, Validate(cfg)
	}
	cfg, err := Load(path)
	return cfg, true, err
}

func resolvePaths(cfg *Config, dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	cfg.Paths.Content = abs(cfg.Paths.Content)
	cfg.Paths.Templates = abs(cfg.Paths.Templates)
	cfg.Paths.Output = abs(cfg.Paths.Output)
	cfg.Build.HistoryDB = abs(cfg.Build.HistoryDB)
}
