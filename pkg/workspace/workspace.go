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

// Package workspace provides throwaway directories for running clasp outside
// the project tree.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MarkerFile identifies a directory created by this package.
const MarkerFile = ".ascol-workspace"

// ErrOutsideRoot is returned when asked to remove a directory the manager does not own.
var ErrOutsideRoot = errors.New("workspace is outside the managed root")

// Config holds configuration for workspace creation.
type Config struct {
	// Root is the parent of all workspaces. Empty means os.TempDir().
	Root string
	// Prefix is prepended to each workspace directory name.
	Prefix     string
	MaxRetries int
	// Project is recorded in the marker file.
	Project string
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Root:       os.TempDir(),
		Prefix:     "ascol-pull-",
		MaxRetries: 5,
	}
}

// Workspace is one throwaway directory.
type Workspace struct {
	ID      string
	Dir     string
	Created time.Time
}

// Manager creates and removes workspaces under one root.
type Manager struct {
	config *Config
	newID  func() string
}

// NewManager creates a workspace manager.
func NewManager(config *Config) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Root == "" {
		config.Root = os.TempDir()
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 1
	}

	return &Manager{
		config: config,
		newID:  uuid.NewString,
	}
}

// Root returns the directory workspaces are created in.
func (m *Manager) Root() string {
	return m.config.Root
}

// Prepare creates a fresh, empty workspace.
func (m *Manager) Prepare() (*Workspace, error) {
	if err := os.MkdirAll(m.config.Root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}

	for attempt := 0; attempt < m.config.MaxRetries; attempt++ {
		id := m.newID()
		dir := filepath.Join(m.config.Root, m.config.Prefix+id)

		// Mkdir fails if the directory exists, so a collision just retries.
		if err := os.Mkdir(dir, 0o750); err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return nil, fmt.Errorf("failed to create workspace: %w", err)
		}

		ws := &Workspace{ID: id, Dir: dir, Created: time.Now()}
		if err := m.writeMarker(ws); err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
		return ws, nil
	}

	return nil, fmt.Errorf("unable to create unique workspace after %d attempts", m.config.MaxRetries)
}

func (m *Manager) writeMarker(ws *Workspace) error {
	metadata := fmt.Sprintf("PID=%d\nTimestamp=%d\nProject=%s\n",
		os.Getpid(),
		ws.Created.Unix(),
		m.config.Project,
	)

	// #nosec G306 - marker holds no secrets
	if err := os.WriteFile(filepath.Join(ws.Dir, MarkerFile), []byte(metadata), 0o600); err != nil {
		return fmt.Errorf("failed to write workspace marker: %w", err)
	}
	return nil
}

// Cleanup removes the workspace. It refuses directories outside the root or
// without a marker file.
func (m *Manager) Cleanup(ws *Workspace) error {
	if ws == nil {
		return nil
	}

	if err := m.owns(ws.Dir); err != nil {
		return err
	}

	if err := os.RemoveAll(ws.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}
	return nil
}

func (m *Manager) owns(dir string) error {
	root, err := filepath.Abs(m.config.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, dir)
	}

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return nil
	}
	if _, err := os.Stat(filepath.Join(abs, MarkerFile)); err != nil {
		return fmt.Errorf("%w: %s has no %s", ErrOutsideRoot, dir, MarkerFile)
	}
	return nil
}

// Validate checks that the workspace still exists and is owned by the manager.
func (m *Manager) Validate(ws *Workspace) error {
	if _, err := os.Stat(ws.Dir); os.IsNotExist(err) {
		return fmt.Errorf("workspace directory missing: %s", ws.Dir)
	}
	return m.owns(ws.Dir)
}

// Sweep removes workspaces under the root that are older than olderThan, for
// example ones left behind by an interrupted pull. Unmarked directories are
// never touched.
func (m *Manager) Sweep(olderThan time.Duration) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.config.Root, m.config.Prefix+"*"))
	if err != nil {
		return nil, fmt.Errorf("failed to find workspaces: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	var removed []string
	var errs []error

	for _, dir := range matches {
		info, err := os.Stat(filepath.Join(dir, MarkerFile))
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", dir, err))
			continue
		}
		removed = append(removed, dir)
	}

	return removed, errors.Join(errs...)
}
