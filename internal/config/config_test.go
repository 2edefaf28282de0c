package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missionci.yml")
	data := `
contracts_dir: specials
prefixes: [SCO]
parallel: 4
review:
  trusted_reviewer: Maintainer
  approval_gate: any
  dedupe_messages: true
http_timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.ContractsDir = "specials"
	want.Prefixes = []string{"SCO"}
	want.Parallel = 4
	want.Review = Review{TrustedReviewer: "Maintainer", ApprovalGate: "any", DedupeMessages: true}
	want.HTTPTimeout = 5 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_JSONDetectedByContent(t *testing.T) {
	cfg, err := LoadFile([]byte(`{"contracts_dir": "campaigns"}`), "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ContractsDir != "campaigns" {
		t.Errorf("ContractsDir = %q, want campaigns", cfg.ContractsDir)
	}
	if cfg.Reviewer.LogFile != "missionreviewer.log" {
		t.Errorf("defaults lost: LogFile = %q", cfg.Reviewer.LogFile)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	if _, err := LoadFile([]byte("parallel: [oops"), ".yaml"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		EnvWebhookURL:      "https://hooks.example/abc",
		EnvTrustedReviewer: "someone",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.WebhookURL != "https://hooks.example/abc" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.Review.TrustedReviewer != "someone" {
		t.Errorf("TrustedReviewer = %q", cfg.Review.TrustedReviewer)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no contracts dir", func(c *Config) { c.ContractsDir = "" }, true},
		{"zero parallel", func(c *Config) { c.Parallel = 0 }, true},
		{"bad gate", func(c *Config) { c.Review.ApprovalGate = "sometimes" }, true},
		{"gate off", func(c *Config) { c.Review.ApprovalGate = "off" }, false},
		{"no reviewer repo", func(c *Config) { c.Reviewer.Repo = "" }, true},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
