// Copyright Pigeonworks LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manager loads and saves the project configuration file. Every command does
// one Load, mutates the Config in memory, and at most one Save.
type Manager struct {
	projectDir string
	configPath string
}

// NewManager creates a manager for the configuration file in projectDir.
// An empty fileName means DefaultConfigFile.
func NewManager(projectDir, fileName string) *Manager {
	if fileName == "" {
		fileName = DefaultConfigFile
	}

	configPath := fileName
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(projectDir, fileName)
	}

	return &Manager{
		projectDir: projectDir,
		configPath: configPath,
	}
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.configPath
}

// ProjectDir returns the project root.
func (m *Manager) ProjectDir() string {
	return m.projectDir
}

// Exists reports whether the configuration file exists.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// fileFormat also accepts the first file format, which kept build paths at the top level.
type fileFormat struct {
	ScriptID    string        `json:"scriptId"`
	SrcDir      string        `json:"srcDir"`
	DistDir     string        `json:"distDir"`
	Build       BuildConfig   `json:"build"`
	Deployments []Environment `json:"deployments"`
}

// Load reads the configuration file. A missing file yields the defaults.
func (m *Manager) Load() (*Config, error) {
	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Empty file, return defaults
	if len(bytes.TrimSpace(data)) == 0 {
		return DefaultConfig(), nil
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", m.configPath, err)
	}

	var raw fileFormat
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, m.configPath, err)
	}

	cfg := &Config{
		ScriptID:    raw.ScriptID,
		Build:       raw.Build,
		Deployments: raw.Deployments,
	}
	if cfg.Build.SrcDir == "" {
		cfg.Build.SrcDir = raw.SrcDir
	}
	if cfg.Build.DistDir == "" {
		cfg.Build.DistDir = raw.DistDir
	}
	cfg.applyDefaults()

	if err := validateRegistry(cfg.Deployments); err != nil {
		return nil, fmt.Errorf("%s: %w", m.configPath, err)
	}

	return cfg, nil
}

// Require loads the configuration and fails with ErrConfigMissing if the file is absent.
func (m *Manager) Require() (*Config, error) {
	if !m.Exists() {
		return nil, fmt.Errorf("%w: %s not found", ErrConfigMissing, m.configPath)
	}
	return m.Load()
}

// Save writes the whole configuration. The file is replaced by rename so a
// failed write never leaves a truncated registry behind.
func (m *Manager) Save(cfg *Config) error {
	cfg.applyDefaults()

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(m.configPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}

	// #nosec G302 - config is not secret and is usually committed
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}

	if err := os.Rename(tmpPath, m.configPath); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}

	return nil
}
