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

package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pigeonworks-llc/ascol/pkg/build"
	"github.com/pigeonworks-llc/ascol/pkg/deploy"
	"github.com/pigeonworks-llc/ascol/pkg/state"
)

// CreateOptions configures Create.
type CreateOptions struct {
	Title string
	// Type is passed to clasp as --type (standalone, webapp, sheets, ...).
	Type string
}

// CreateResult describes a newly created project.
type CreateResult struct {
	ScriptID       string
	HeadID         string
	ManifestCopied bool
	Config         *state.Config
}

// Create creates the remote project with the output directory as clasp rootDir,
// writes the configuration and registers the head deployment.
func (p *Project) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, fmt.Errorf("%w: --title is required", deploy.ErrInvalidRequest)
	}

	cfg := state.DefaultConfig()
	rootDir := "./" + filepath.ToSlash(cfg.Build.DistDir)

	if err := p.client.Create(ctx, opts.Title, opts.Type, rootDir); err != nil {
		return nil, fmt.Errorf("clasp create failed: %w", err)
	}

	claspProject, err := state.ReadClaspProject(p.dir)
	if err != nil {
		return nil, err
	}
	cfg.ScriptID = claspProject.ScriptID

	headID, err := p.headDeploymentID(ctx)
	if err != nil {
		return nil, err
	}
	cfg.Upsert(state.HeadEnvironment, headID)

	if err := p.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	if err := os.MkdirAll(p.path(cfg.Build.SrcDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create source directory: %w", err)
	}

	result := &CreateResult{ScriptID: cfg.ScriptID, HeadID: headID, Config: cfg}

	manifest := filepath.Join(p.path(cfg.Build.DistDir), build.ManifestFile)
	if exists(manifest) {
		if err := copyFile(manifest, filepath.Join(p.path(cfg.Build.SrcDir), build.ManifestFile)); err != nil {
			return nil, err
		}
		result.ManifestCopied = true
	}

	p.logger.Info("project created", "script_id", cfg.ScriptID, "head_id", headID)
	return result, nil
}

// InitOptions configures Init.
type InitOptions struct {
	SrcDir  string
	DistDir string
}

// InitResult describes the configuration written by Init.
type InitResult struct {
	ScriptID string
	HeadID   string
	Config   *state.Config
}

// Init writes a configuration for an existing clasp project.
func (p *Project) Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	claspProject, err := state.ReadClaspProject(p.dir)
	if err != nil {
		return nil, err
	}

	headID, err := p.headDeploymentID(ctx)
	if err != nil {
		return nil, err
	}

	cfg := state.DefaultConfig()
	cfg.ScriptID = claspProject.ScriptID
	if opts.SrcDir != "" {
		cfg.Build.SrcDir = opts.SrcDir
	}
	if opts.DistDir != "" {
		cfg.Build.DistDir = opts.DistDir
	}
	if headID != "" {
		cfg.Upsert(state.HeadEnvironment, headID)
	}

	if err := p.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	dirs := append([]string{cfg.Build.SrcDir}, cfg.Build.Transpile.ClientSourceDirs...)
	for _, dir := range dirs {
		if strings.ContainsAny(dir, "*?[{") {
			continue
		}
		if err := os.MkdirAll(p.path(dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	p.logger.Info("project initialized", "script_id", cfg.ScriptID, "head_id", headID)
	return &InitResult{ScriptID: cfg.ScriptID, HeadID: headID, Config: cfg}, nil
}
