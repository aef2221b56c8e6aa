// Package config loads and holds process-level configuration for the
// scrub command-line tools.
//
// Settings are layered: defaults → scrub-config.json → environment
// variables (env vars win). This governs only process behavior — log
// level, which rule file to load by default, output formatting. The
// redaction rule set itself is a pii.PiiConfig, loaded separately via
// pii.LoadPiiConfig; it is never layered with these settings.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds process-level configuration for cmd/scrub and cmd/diffscrub.
type Config struct {
	LogLevel string `json:"logLevel"`

	// RuleConfigFile is the default path to a pii.PiiConfig JSON document,
	// used when a tool is not given an explicit --config flag.
	RuleConfigFile string `json:"ruleConfigFile"`

	// PrettyOutput controls whether scrubbed JSON is indented.
	PrettyOutput bool `json:"prettyOutput"`

	// MetricsFile, if non-empty, receives a metrics.Snapshot as JSON after
	// each run. Empty means metrics are not written anywhere.
	MetricsFile string `json:"metricsFile"`
}

// Load returns config with defaults overridden by scrub-config.json and env vars.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "scrub-config.json")
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		LogLevel:       "info",
		RuleConfigFile: "pii-config.json",
		PrettyOutput:   true,
		MetricsFile:    "",
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: path is a controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RULE_CONFIG_FILE"); v != "" {
		cfg.RuleConfigFile = v
	}
	if v := os.Getenv("PRETTY_OUTPUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PrettyOutput = b
		}
	}
	if v := os.Getenv("METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
}
