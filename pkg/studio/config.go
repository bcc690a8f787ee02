package studio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config captures the file-level knobs for an editing session.
type Config struct {
	Author       string `json:"author" yaml:"author"`
	HistoryLimit int    `json:"historyLimit" yaml:"historyLimit"`
	Renderer     string `json:"renderer" yaml:"renderer"`
	Theme        string `json:"theme" yaml:"theme"`
	Variant      string `json:"variant" yaml:"variant"`
	HideWarnings bool   `json:"hideWarnings" yaml:"hideWarnings"`
}

// LoadConfig reads a YAML or JSON configuration file. The extension picks
// the decoder; unknown extensions try JSON first and then YAML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("studio: read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("studio: config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data. ext is a file extension such as ".yaml".
func ParseConfig(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			cfg = Config{}
			if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
				return Config{}, fmt.Errorf("unrecognised config format: %w", yerr)
			}
		}
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("historyLimit must not be negative, got %d", cfg.HistoryLimit)
	}
	cfg.Author = strings.TrimSpace(cfg.Author)
	cfg.Renderer = strings.TrimSpace(cfg.Renderer)
	cfg.Theme = strings.TrimSpace(cfg.Theme)
	cfg.Variant = strings.TrimSpace(cfg.Variant)
	return cfg, nil
}
