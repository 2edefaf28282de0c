// Package config loads missionci settings from an optional YAML or JSON file,
// with defaults applied first and environment overrides applied last.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".missionci.yaml"

// Environment overrides.
const (
	EnvWebhookURL      = "MISSIONCI_WEBHOOK_URL"
	EnvTrustedReviewer = "MISSIONCI_TRUSTED_REVIEWER"
)

// Config holds every tunable of a run.
type Config struct {
	// ContractsDir is the directory listed for contract folders.
	ContractsDir string `yaml:"contracts_dir" json:"contracts_dir"`
	// TemplateURL and MissionsURL are the link targets for findings.
	TemplateURL string `yaml:"template_url" json:"template_url"`
	MissionsURL string `yaml:"missions_url" json:"missions_url"`
	// Prefixes lists the accepted contract folder prefixes. Empty disables the check.
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
	// Parallel bounds concurrent contract validation. 1 keeps it sequential.
	Parallel int `yaml:"parallel" json:"parallel"`

	Review   Review   `yaml:"review" json:"review"`
	Reviewer Reviewer `yaml:"reviewer" json:"reviewer"`

	// WebhookURL receives a notification on unattended approvals.
	WebhookURL  string        `yaml:"webhook_url" json:"webhook_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
}

// Review configures the review orchestrator.
type Review struct {
	TrustedReviewer string `yaml:"trusted_reviewer" json:"trusted_reviewer"`
	// ApprovalGate is one of "latest", "any" or "off".
	ApprovalGate   string `yaml:"approval_gate" json:"approval_gate"`
	DedupeMessages bool   `yaml:"dedupe_messages" json:"dedupe_messages"`
}

// Reviewer configures the external missionreviewer binary.
type Reviewer struct {
	Owner   string   `yaml:"owner" json:"owner"`
	Repo    string   `yaml:"repo" json:"repo"`
	Dir     string   `yaml:"dir" json:"dir"`
	LogFile string   `yaml:"log_file" json:"log_file"`
	Args    []string `yaml:"args" json:"args"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ContractsDir: "contracts",
		TemplateURL:  "https://github.com/SynixeContractors/MissionTemplate",
		MissionsURL:  "https://github.com/SynixeContractors/Missions",
		Prefixes:     []string{"CO", "SCO", "TRA"},
		Parallel:     1,
		Review: Review{
			TrustedReviewer: "SynixeBrodsky",
			ApprovalGate:    "latest",
		},
		Reviewer: Reviewer{
			Owner:   "SynixeContractors",
			Repo:    "MissionReviewer",
			Dir:     "missionreviewer",
			LogFile: "missionreviewer.log",
		},
		HTTPTimeout: 30 * time.Second,
	}
}

// Load reads the config file at path on top of Default. A missing file at
// DefaultPath is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadFile(data, filepath.Ext(path))
}

// LoadFile parses config bytes. ext is the file extension used as format hint;
// empty means detect from content.
func LoadFile(data []byte, ext string) (*Config, error) {
	cfg := Default()
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" && strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		ext = ".json"
	}
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvWebhookURL); v != "" {
		c.WebhookURL = v
	}
	if v := getenv(EnvTrustedReviewer); v != "" {
		c.Review.TrustedReviewer = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.ContractsDir == "" {
		return errors.New("config: contracts_dir is required")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("config: parallel must be >= 1, got %d", c.Parallel)
	}
	switch c.Review.ApprovalGate {
	case "latest", "any", "off":
	default:
		return fmt.Errorf("config: approval_gate must be latest, any or off, got %q", c.Review.ApprovalGate)
	}
	if c.Reviewer.Owner == "" || c.Reviewer.Repo == "" {
		return errors.New("config: reviewer.owner and reviewer.repo are required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("config: http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
