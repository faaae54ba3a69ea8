package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Analysis status values in a manifest.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Manifest lists what one run produced.
type Manifest struct {
	RunID    string          `yaml:"run_id"`
	Started  time.Time       `yaml:"started"`
	Finished time.Time       `yaml:"finished"`
	InputDir string          `yaml:"input_dir"`
	Analyses []ManifestEntry `yaml:"analyses"`
}

type ManifestEntry struct {
	Name   string         `yaml:"name"`
	Status string         `yaml:"status"`
	Error  string         `yaml:"error,omitempty"`
	Files  []ManifestFile `yaml:"files,omitempty"`
}

type ManifestFile struct {
	Path string `yaml:"path"`
	Rows int    `yaml:"rows"`
}

// WriteManifest stores m as MANIFEST_stamp.yaml in dir.
func WriteManifest(dir, stamp string, m *Manifest) (string, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("MANIFEST_%s.yaml", stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
