// ThreatLens - Heuristic Security Analysis Engine
// Copyright 2026 ETERNYX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/eternyx/threatlens

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/eternyx/threatlens/internal/config"
	"github.com/eternyx/threatlens/internal/detection"
)

const testNow = "2026-03-01T12:00:00Z"

// executeCommand runs the CLI with args in an empty directory, so no
// config file from the developer's machine leaks in.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	root := NewRootCmd("1.2.3-test")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func maliciousContent() []byte {
	content := bytes.Repeat([]byte("exec("), 6)
	for i := 0; i < 4096; i++ {
		content = append(content, byte(i%256))
	}
	return content
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return v
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "threatlens 1.2.3-test (") {
		t.Errorf("version output = %q", out)
	}
}

func TestScanCommand(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "notes.txt", []byte("quarterly report draft"))
	bad := writeFile(t, dir, "loader.js", maliciousContent())

	t.Run("reports every file", func(t *testing.T) {
		out, err := executeCommand(t, "", "scan", clean, bad)
		if err != nil {
			t.Fatalf("scan: %v", err)
		}
		reports := decodeJSON[[]detection.SampleReport](t, out)
		if len(reports) != 2 {
			t.Fatalf("got %d reports, want 2", len(reports))
		}
		if reports[0].Name != "notes.txt" || reports[0].Verdict.Classification != detection.ClassificationClean {
			t.Errorf("first report = %s %s", reports[0].Name, reports[0].Verdict.Classification)
		}
		if reports[1].Name != "loader.js" || reports[1].Verdict.Classification != detection.ClassificationMalicious {
			t.Errorf("second report = %s %s", reports[1].Name, reports[1].Verdict.Classification)
		}
		if reports[1].Features.FileType != "JavaScript" {
			t.Errorf("file type = %q", reports[1].Features.FileType)
		}
	})

	t.Run("fail-on malicious", func(t *testing.T) {
		out, err := executeCommand(t, "", "scan", "--fail-on", "malicious", clean, bad)
		if !errors.Is(err, ErrFindings) {
			t.Fatalf("err = %v, want ErrFindings", err)
		}
		if !strings.Contains(out, "loader.js") {
			t.Error("report not printed before failing")
		}
	})

	t.Run("fail-on not reached", func(t *testing.T) {
		if _, err := executeCommand(t, "", "scan", "--fail-on", "Suspicious", clean); err != nil {
			t.Errorf("scan clean file: %v", err)
		}
	})

	t.Run("unknown fail-on level", func(t *testing.T) {
		if _, err := executeCommand(t, "", "scan", "--fail-on", "evil", clean); err == nil {
			t.Error("accepted unknown classification")
		}
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := executeCommand(t, "eval(atob('x'))", "scan", "-")
		if err != nil {
			t.Fatalf("scan -: %v", err)
		}
		reports := decodeJSON[[]detection.SampleReport](t, out)
		if len(reports) != 1 || reports[0].Name != "stdin" {
			t.Fatalf("reports = %+v", reports)
		}
		if reports[0].Features.SuspiciousTokenCount == 0 {
			t.Error("tokens from stdin not counted")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := executeCommand(t, "", "scan", filepath.Join(dir, "nope.bin")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("requires an argument", func(t *testing.T) {
		if _, err := executeCommand(t, "", "scan"); err == nil {
			t.Error("expected argument error")
		}
	})
}

func TestTrafficCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("JSON records object", func(t *testing.T) {
		path := writeFile(t, dir, "flows.json", []byte(`{"records":[
			{"timestamp":"2026-03-01T11:00:00Z","source":"10.0.0.1","destination":"10.0.0.2","port":443,"size":1200,"protocol":"HTTPS","frequency":3},
			{"timestamp":"2026-03-01T11:01:00Z","source":"10.0.0.1","destination":"10.0.0.3","port":80,"size":900,"protocol":"http","frequency":5}
		]}`))
		out, err := executeCommand(t, "", "traffic", path)
		if err != nil {
			t.Fatalf("traffic: %v", err)
		}
		result := decodeJSON[detection.TrafficAnalysis](t, out)
		if result.TotalRecords != 2 {
			t.Errorf("TotalRecords = %d, want 2", result.TotalRecords)
		}
		if result.RiskLevel != detection.RiskLow {
			t.Errorf("RiskLevel = %s, want Low", result.RiskLevel)
		}
	})

	t.Run("YAML array", func(t *testing.T) {
		path := writeFile(t, dir, "flows.yaml", []byte(`
- timestamp: "2026-03-01T11:00:00Z"
  source: 10.0.0.1
  destination: 10.0.0.2
  port: 22
  size: 300
  protocol: TCP
  frequency: 1
`))
		out, err := executeCommand(t, "", "traffic", path)
		if err != nil {
			t.Fatalf("traffic: %v", err)
		}
		if result := decodeJSON[detection.TrafficAnalysis](t, out); result.TotalRecords != 1 {
			t.Errorf("TotalRecords = %d, want 1", result.TotalRecords)
		}
	})

	t.Run("invalid record", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", []byte(`[{"timestamp":"2026-03-01T11:00:00Z","port":-1,"protocol":"TCP"}]`))
		_, err := executeCommand(t, "", "traffic", path)
		if _, ok := detection.AsInvalidInput(err); !ok {
			t.Errorf("err = %v, want invalid input", err)
		}
	})

	t.Run("fail-on low always trips", func(t *testing.T) {
		path := writeFile(t, dir, "one.json", []byte(`[{"timestamp":"2026-03-01T11:00:00Z","source":"a","destination":"b","port":80,"size":10,"protocol":"TCP","frequency":1}]`))
		if _, err := executeCommand(t, "", "traffic", "--fail-on", "low", path); !errors.Is(err, ErrFindings) {
			t.Errorf("err = %v, want ErrFindings", err)
		}
	})
}

func TestSimulateCommands(t *testing.T) {
	t.Run("seeded traffic is reproducible", func(t *testing.T) {
		args := []string{"--now", testNow, "simulate", "traffic", "--count", "5", "--seed", "42"}
		first, err := executeCommand(t, "", args...)
		if err != nil {
			t.Fatalf("simulate traffic: %v", err)
		}
		second, err := executeCommand(t, "", args...)
		if err != nil {
			t.Fatalf("simulate traffic: %v", err)
		}
		if first != second {
			t.Error("same seed and clock produced different output")
		}
		if records := decodeJSON[[]detection.TrafficRecord](t, first); len(records) != 5 {
			t.Errorf("got %d records, want 5", len(records))
		}
	})

	t.Run("generated traffic feeds the traffic command", func(t *testing.T) {
		generated, err := executeCommand(t, "", "--now", testNow, "simulate", "traffic", "--seed", "7")
		if err != nil {
			t.Fatalf("simulate traffic: %v", err)
		}
		out, err := executeCommand(t, generated, "traffic", "-")
		if err != nil {
			t.Fatalf("traffic -: %v", err)
		}
		if result := decodeJSON[detection.TrafficAnalysis](t, out); result.TotalRecords != 100 {
			t.Errorf("TotalRecords = %d, want 100", result.TotalRecords)
		}
	})

	t.Run("history analyze", func(t *testing.T) {
		out, err := executeCommand(t, "", "--now", testNow, "simulate", "history", "--count", "200", "--seed", "3", "--analyze")
		if err != nil {
			t.Fatalf("simulate history: %v", err)
		}
		fc := decodeJSON[detection.ThreatForecast](t, out)
		if fc.RecentEvents != 24 {
			t.Errorf("RecentEvents = %d, want 24", fc.RecentEvents)
		}
		if fc.CurrentLevel != detection.RiskMedium {
			t.Errorf("CurrentLevel = %s, want Medium", fc.CurrentLevel)
		}
	})

	t.Run("negative count", func(t *testing.T) {
		if _, err := executeCommand(t, "", "simulate", "history", "--count", "-1"); err == nil {
			t.Error("accepted negative count")
		}
	})
}

func TestPredictAndTrendsCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "history.json", []byte(`{"events":[
		{"timestamp":"2026-03-01T10:00:00Z","category":"malware","severity":7},
		{"timestamp":"2026-03-01T10:30:00Z","category":"phishing","severity":4},
		{"timestamp":"2026-02-20T09:00:00Z","category":"ddos","severity":9}
	]}`))

	out, err := executeCommand(t, "", "--now", testNow, "predict", path)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	fc := decodeJSON[detection.ThreatForecast](t, out)
	if fc.RecentEvents != 2 {
		t.Errorf("RecentEvents = %d, want 2", fc.RecentEvents)
	}
	if len(fc.Recommendations) == 0 {
		t.Error("forecast has no recommendations")
	}

	out, err = executeCommand(t, "", "--now", testNow, "trends", path)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	summary := decodeJSON[detection.TrendSummary](t, out)
	if summary.Granularity != detection.GranularityHourOfDay {
		t.Errorf("Granularity = %s", summary.Granularity)
	}
	if summary.BucketCounts["10"] != 2 {
		t.Errorf("bucket 10 = %d, want 2 (%v)", summary.BucketCounts["10"], summary.BucketCounts)
	}

	if _, err := executeCommand(t, "", "--now", "yesterday", "predict", path); err == nil {
		t.Error("accepted malformed --now")
	}
}

func TestModelsAndPolicyCommands(t *testing.T) {
	out, err := executeCommand(t, "", "models")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if models := decodeJSON[[]detection.ModelInfo](t, out); len(models) != len(detection.DefaultModelCatalog()) {
		t.Errorf("got %d models", len(models))
	}

	out, err = executeCommand(t, "", "-o", "yaml", "policy")
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("policy output is not YAML: %v\n%s", err, out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("policy YAML uses flow style:\n%s", out)
	}
	malware, ok := doc["malware"].(map[string]any)
	if !ok {
		t.Fatalf("malware section missing:\n%s", out)
	}
	if malware["malicious_threshold"] != 0.7 {
		t.Errorf("malicious_threshold = %v, want 0.7", malware["malicious_threshold"])
	}
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", []byte("analysis:\n  malware:\n    malicious_threshold: 0.9\n"))

	out, err := executeCommand(t, "", "--config", path, "policy")
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	policy := decodeJSON[detection.Policy](t, out)
	if policy.Malware.MaliciousThreshold != 0.9 {
		t.Errorf("MaliciousThreshold = %v, want 0.9", policy.Malware.MaliciousThreshold)
	}

	if _, err := executeCommand(t, "", "--config", filepath.Join(dir, "missing.yaml"), "policy"); err == nil {
		t.Error("accepted missing --config file")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range []string{"", "json", "JSON", "yaml", "yml"} {
		if _, err := NewFormatter(format); err != nil {
			t.Errorf("NewFormatter(%q): %v", format, err)
		}
	}
	if _, err := NewFormatter("table"); err == nil {
		t.Error("NewFormatter(table) succeeded")
	}
}

func TestYAMLFormatter_QuotesAmbiguousStrings(t *testing.T) {
	var buf bytes.Buffer
	err := YAMLFormatter{}.Write(&buf, struct {
		Flag string `json:"flag"`
		Port string `json:"port"`
		Name string `json:"name"`
	}{Flag: "true", Port: "443", Name: "plain"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["flag"] != "true" || back["port"] != "443" || back["name"] != "plain" {
		t.Errorf("round trip = %#v\n%s", back, buf.String())
	}
}

func TestExecuteExitCodes(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	sample := writeFile(t, t.TempDir(), "a.txt", []byte("hello"))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"success", []string{"-o", "yaml", "models"}, ExitOK},
		{"unknown command", []string{"explode"}, ExitError},
		{"findings", []string{"scan", "--fail-on", "clean", sample}, ExitFindings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Execute("dev", tt.args); got != tt.want {
				t.Errorf("Execute(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
