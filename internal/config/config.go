// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/jonathan/leetcode-company-report/internal/schemas"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "REPORT"

// Default values for the report run.
const (
	DefaultInput              = "leetcode_analysis_categorized.xlsx"
	DefaultOutput             = "leetcode_company_analysis_output.xlsx"
	DefaultWorkers            = 1
	DefaultFetchTimeout       = 30 * time.Second
	DefaultUserAgent          = "Mozilla/5.0 (compatible; CompanyReport/1.0)"
	DefaultBurst              = 1
	DefaultCacheTTL           = 7 * 24 * time.Hour
	DefaultDifficultySelector = "span.css-10d7fc9"
	DefaultTopicSelector      = "a.topic-tag"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
)

// Duration is a time.Duration written as a Go duration string ("30s") in
// JSON and environment variables.
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the run configuration.
// Zero values mean "not set" until MergeWithDefaults fills them.
type Config struct {
	// Paths
	Input  string `json:"input,omitempty" split_words:"true" validate:"required"`   // Source spreadsheet
	Output string `json:"output,omitempty" split_words:"true" validate:"required"` // Report workbook
	Sheet  string `json:"sheet,omitempty" split_words:"true"`                       // Input sheet, first sheet when empty

	// Enrichment
	Workers            int      `json:"workers,omitempty" split_words:"true" validate:"min=1,max=64"`
	FetchTimeout       Duration `json:"fetch_timeout,omitempty" split_words:"true" validate:"gt=0"`
	UserAgent          string   `json:"user_agent,omitempty" split_words:"true" validate:"required"`
	RateLimit          float64  `json:"rate_limit,omitempty" split_words:"true" validate:"gte=0"` // Requests per second, 0 disables
	Burst              int      `json:"burst,omitempty" split_words:"true" validate:"min=1"`
	UseBrowser         bool     `json:"use_browser,omitempty" split_words:"true"`
	Offline            bool     `json:"offline,omitempty" split_words:"true"`
	DifficultySelector string   `json:"difficulty_selector,omitempty" split_words:"true" validate:"required"`
	TopicSelector      string   `json:"topic_selector,omitempty" split_words:"true" validate:"required"`

	// Metadata cache
	DatabaseURL string   `json:"database_url,omitempty" envconfig:"DATABASE_URL"` // Also read from DATABASE_URL
	CacheTTL    Duration `json:"cache_ttl,omitempty" split_words:"true" validate:"gt=0"`
	NoCache     bool     `json:"no_cache,omitempty" split_words:"true"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" split_words:"true" validate:"oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" split_words:"true" validate:"oneof=text json"`
	Verbose   bool   `json:"verbose,omitempty" split_words:"true"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Input:              DefaultInput,
		Output:             DefaultOutput,
		Workers:            DefaultWorkers,
		FetchTimeout:       Duration(DefaultFetchTimeout),
		UserAgent:          DefaultUserAgent,
		Burst:              DefaultBurst,
		CacheTTL:           Duration(DefaultCacheTTL),
		DifficultySelector: DefaultDifficultySelector,
		TopicSelector:      DefaultTopicSelector,
		LogLevel:           DefaultLogLevel,
		LogFormat:          DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON file.
// The file is checked against the embedded schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse config JSON: %s is not valid JSON", path)
	}
	if err := schemas.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("config file %s does not match schema: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields of c with any REPORT_* environment variables that are set.
// Unset variables leave the existing value alone.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to load config from env: %w", err)
	}
	return nil
}

// Load resolves configuration from defaults, an optional JSON file and the
// environment, in increasing order of precedence. Flags are applied by the caller.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.Input, defaults.Input)
	mergeString(&result.Output, defaults.Output)
	mergeString(&result.Sheet, defaults.Sheet)
	mergeString(&result.UserAgent, defaults.UserAgent)
	mergeString(&result.DifficultySelector, defaults.DifficultySelector)
	mergeString(&result.TopicSelector, defaults.TopicSelector)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	// Numeric fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Burst == 0 {
		result.Burst = defaults.Burst
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	// Bool fields: true in either wins
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Offline = result.Offline || defaults.Offline
	result.NoCache = result.NoCache || defaults.NoCache
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func mergeString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Offline && c.UseBrowser {
		return fmt.Errorf("config error: 'offline' and 'use_browser' are mutually exclusive")
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describeFieldError(fe))
	}
	return fmt.Errorf("config error: %s", strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s]", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' failed '%s' validation", fe.Field(), fe.Tag())
	}
}
