// Command diffscrub drives an interactive workflow for reviewing what a
// rule configuration would redact in an event before committing to it.
//
// It scrubs the given event under the given configuration, then prints a
// line-oriented diff between the original and the scrubbed document so a
// policy author can see exactly which values were masked, replaced, or
// removed, and under which rule, without hand-diffing raw JSON.
//
// Usage:
//
//	diffscrub --config pii-config.json --event event.json
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"eventscrub/event"
	"eventscrub/internal/config"
	"eventscrub/internal/logger"
	"eventscrub/pii"

	"github.com/spf13/pflag"
)

func main() {
	cfg := config.Load()

	configPath := pflag.String("config", cfg.RuleConfigFile, "path to a pii rule configuration JSON file")
	eventPath := pflag.String("event", "", "path to the event JSON document to scrub")
	logLevel := pflag.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pflag.Parse()

	log := logger.New("DIFFSCRUB", *logLevel)

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

	before, err := prettyLines(eventData)
	if err != nil {
		log.Fatalf("event_parse", "parsing %s: %v", *eventPath, err)
	}

	processor := ruleConfig.Processor(func(format string, args ...any) {
		log.Warnf("rule_lookup", format, args...)
	})

	annotated, err := event.FromJSON(eventData)
	if err != nil {
		log.Fatalf("event_decode", "decoding %s: %v", *eventPath, err)
	}
	if annotated.Value != nil {
		annotated.Value.Process(processor)
	}
	scrubbed, err := event.ToJSON(annotated, true)
	if err != nil {
		log.Fatalf("event_encode", "re-encoding scrubbed event: %v", err)
	}
	after, err := prettyLines(scrubbed)
	if err != nil {
		log.Fatalf("event_parse", "parsing scrubbed output: %v", err)
	}

	changed := printUnifiedDiff(os.Stdout, before, after)
	if !changed {
		fmt.Println("(no changes — this configuration redacts nothing in this event)")
		return
	}

	if !promptConfirm(os.Stdin, os.Stdout, "Apply this redaction to the source file?") {
		fmt.Println("discarded, no file written")
		return
	}
	if err := os.WriteFile(*eventPath, scrubbed, 0o644); err != nil { //nolint:gosec // G306: event file is operator-controlled
		log.Fatalf("event_write", "writing %s: %v", *eventPath, err)
	}
	fmt.Printf("wrote scrubbed event to %s\n", *eventPath)
}

// prettyLines re-indents a JSON document into a stable, line-split form
// suitable for line-by-line diffing.
func prettyLines(data []byte) ([]string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	rawLines := bytes.Split(pretty, []byte("\n"))
	lines := make([]string, len(rawLines))
	for i, l := range rawLines {
		lines[i] = string(l)
	}
	return lines, nil
}

// printUnifiedDiff writes a minimal unified-style diff of before vs after
// to w, prefixing removed lines with "-" and added lines with "+". It
// reports whether any line differed.
func printUnifiedDiff(w *os.File, before, after []string) bool {
	changed := false
	i, j := 0, 0
	for i < len(before) && j < len(after) {
		if before[i] == after[j] {
			fmt.Fprintf(w, "  %s\n", before[i])
			i++
			j++
			continue
		}
		changed = true
		fmt.Fprintf(w, "- %s\n", before[i])
		fmt.Fprintf(w, "+ %s\n", after[j])
		i++
		j++
	}
	for ; i < len(before); i++ {
		changed = true
		fmt.Fprintf(w, "- %s\n", before[i])
	}
	for ; j < len(after); j++ {
		changed = true
		fmt.Fprintf(w, "+ %s\n", after[j])
	}
	return changed
}

// promptConfirm asks a yes/no question on w and reads a line from r,
// defaulting to "no" on EOF or any answer other than y/yes.
func promptConfirm(r *os.File, w *os.File, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := scanner.Text()
	return answer == "y" || answer == "Y" || answer == "yes"
}
