// Command scrub redacts PII from a single structured event document.
//
// It reads a rule configuration (a pii.PiiConfig) and an event JSON
// document from disk, runs the event through the scrubbing engine, and
// writes the redacted document — with its "" meta sidecar — to stdout.
//
// Usage:
//
//	scrub --config pii-config.json --event event.json
//	scrub --config pii-config.json --event event.json --pretty=false
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"eventscrub/event"
	"eventscrub/internal/config"
	"eventscrub/internal/logger"
	"eventscrub/internal/metrics"
	"eventscrub/pii"

	"github.com/spf13/pflag"
)

func main() {
	cfg := config.Load()

	configPath := pflag.String("config", cfg.RuleConfigFile, "path to a pii rule configuration JSON file")
	eventPath := pflag.String("event", "", "path to the event JSON document to scrub")
	pretty := pflag.BoolP("pretty", "p", cfg.PrettyOutput, "pretty-print the scrubbed output")
	logLevel := pflag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pflag.Parse()

	log := logger.New("SCRUB", *logLevel)
	m := metrics.New()

	if *eventPath == "" {
		log.Fatal("args", "missing required --event flag")
	}

	ruleData, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("config_load", "reading %s: %v", *configPath, err)
	}
	ruleConfig, err := pii.LoadPiiConfig(ruleData)
	if err != nil {
		log.Fatalf("config_parse", "parsing %s: %v", *configPath, err)
	}

	eventData, err := os.ReadFile(*eventPath)
	if err != nil {
		log.Fatalf("event_load", "reading %s: %v", *eventPath, err)
	}

	processor := ruleConfig.Processor(func(format string, args ...any) {
		log.Warnf("rule_lookup", format, args...)
	})

	start := time.Now()
	annotated, err := event.FromJSON(eventData)
	if err != nil {
		m.EventsErrored.Add(1)
		log.Fatalf("event_decode", "decoding %s: %v", *eventPath, err)
	}
	if annotated.Value != nil {
		annotated.Value.Process(processor)
	}
	out, err := event.ToJSON(annotated, *pretty)
	m.RecordScrubLatency(time.Since(start))
	if err != nil {
		m.EventsErrored.Add(1)
		log.Fatalf("event_encode", "re-encoding scrubbed event: %v", err)
	}
	m.EventsScrubbed.Add(1)

	fmt.Println(string(out))

	if cfg.MetricsFile != "" {
		writeMetricsSnapshot(log, cfg.MetricsFile, m)
	}
}

func writeMetricsSnapshot(log *logger.Logger, path string, m *metrics.Metrics) {
	data, err := json.MarshalIndent(m.Snapshot(), "", "  ")
	if err != nil {
		log.Warnf("metrics_write", "marshaling snapshot: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: metrics file is operator-controlled output
		log.Warnf("metrics_write", "writing %s: %v", path, err)
	}
}
