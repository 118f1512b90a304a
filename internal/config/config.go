package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/goextract/internal/ujeebu"
)

// Config is the resolved CLI configuration. The API key itself is validated
// by the client constructor, not here, so a config file without a key still
// loads (the key may come from the environment).
type Config struct {
	APIKey  string
	BaseURL string
	Options ujeebu.Options
	Verbose bool
}

// Default returns the stock configuration with the standard flag defaults.
func Default() Config {
	return Config{
		BaseURL: ujeebu.DefaultBaseURL,
		Options: ujeebu.DefaultOptions(),
	}
}

// FileConfig represents the single-file configuration schema. Flag fields are
// pointers so a file can explicitly disable a default-on flag.
type FileConfig struct {
	APIKey  string `yaml:"apiKey" json:"apiKey"`
	BaseURL string `yaml:"baseURL" json:"baseURL"`

	Extract struct {
		Text      *bool `yaml:"text" json:"text"`
		HTML      *bool `yaml:"html" json:"html"`
		Author    *bool `yaml:"author" json:"author"`
		PubDate   *bool `yaml:"pubDate" json:"pubDate"`
		Images    *bool `yaml:"images" json:"images"`
		QuickMode *bool `yaml:"quickMode" json:"quickMode"`
	} `yaml:"extract" json:"extract"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadFile reads YAML or JSON into FileConfig.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// Apply overlays file values into cfg. The CLI re-applies explicitly set
// command-line flags afterwards, so those still win over the file.
func Apply(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.APIKey == "" && fc.APIKey != "" {
		cfg.APIKey = fc.APIKey
	}
	if (cfg.BaseURL == "" || cfg.BaseURL == ujeebu.DefaultBaseURL) && fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	applyFlag := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	applyFlag(&cfg.Options.Text, fc.Extract.Text)
	applyFlag(&cfg.Options.HTML, fc.Extract.HTML)
	applyFlag(&cfg.Options.Author, fc.Extract.Author)
	applyFlag(&cfg.Options.PubDate, fc.Extract.PubDate)
	applyFlag(&cfg.Options.Images, fc.Extract.Images)
	applyFlag(&cfg.Options.QuickMode, fc.Extract.QuickMode)
	if fc.Verbose {
		cfg.Verbose = true
	}
}
