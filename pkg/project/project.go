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

// Package project implements the project-level ascol operations on top of
// clasp, the build transformer and the configuration file.
package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pigeonworks-llc/ascol/pkg/build"
	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/deploy"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/pigeonworks-llc/ascol/pkg/workspace"
)

// Project ties one project directory to its configuration and clasp.
type Project struct {
	dir        string
	store      *state.Manager
	client     *clasp.Client
	workspaces *workspace.Manager
	logger     *slog.Logger
}

// Option configures a Project.
type Option func(*Project)

// WithWorkspaces overrides where throwaway workspaces are created.
func WithWorkspaces(m *workspace.Manager) Option {
	return func(p *Project) {
		p.workspaces = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		p.logger = logger
	}
}

// New creates a project rooted at store.ProjectDir(). The client runs clasp
// in that directory.
func New(store *state.Manager, client *clasp.Client, opts ...Option) *Project {
	p := &Project{
		dir:    store.ProjectDir(),
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.client = client.WithDir(p.dir)
	if p.workspaces == nil {
		cfg := workspace.DefaultConfig()
		cfg.Project = p.dir
		p.workspaces = workspace.NewManager(cfg)
	}
	return p
}

// Dir returns the project root.
func (p *Project) Dir() string {
	return p.dir
}

// Store returns the configuration manager.
func (p *Project) Store() *state.Manager {
	return p.store
}

// Client returns the clasp client rooted at the project directory.
func (p *Project) Client() *clasp.Client {
	return p.client
}

// Workspaces returns the throwaway workspace manager.
func (p *Project) Workspaces() *workspace.Manager {
	return p.workspaces
}

// Reconciler returns a deploy reconciler bound to this project.
func (p *Project) Reconciler() *deploy.Reconciler {
	return deploy.NewReconciler(p.client, p.store, p.logger)
}

func (p *Project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.dir, rel)
}

// Build runs the build transformer with the configured paths.
func (p *Project) Build() ([]build.Action, error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}
	return p.build(cfg)
}

func (p *Project) build(cfg *state.Config) ([]build.Action, error) {
	return build.Transform(build.Options{
		ProjectDir: p.dir,
		SrcDir:     cfg.Build.SrcDir,
		DistDir:    cfg.Build.DistDir,
		ClientDirs: cfg.Build.Transpile.ClientSourceDirs,
		Logger:     p.logger,
	})
}

// Clean empties the output directory except the manifest.
func (p *Project) Clean() ([]string, error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}
	return build.Clean(p.path(cfg.Build.DistDir))
}

// SetIDResult reports a manual registry update.
type SetIDResult struct {
	Environment state.Environment
	Upsert      state.UpsertResult
	URLs        []state.AccessURL
}

// SetID binds name to id without any remote call.
func (p *Project) SetID(name, id string) (*SetIDResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: environment name is empty", deploy.ErrInvalidRequest)
	}

	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	upsert := cfg.Upsert(name, id)
	if err := p.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	env := state.Environment{Name: name, ID: id}
	return &SetIDResult{
		Environment: env,
		Upsert:      upsert,
		URLs:        state.AccessURLs(cfg.ScriptID, env),
	}, nil
}

// headDeploymentID returns the id of the unversioned deployment, or "".
func (p *Project) headDeploymentID(ctx context.Context) (string, error) {
	deployments, err := p.client.ListDeployments(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list deployments: %w", err)
	}
	head, ok := clasp.HeadDeployment(deployments)
	if !ok {
		return "", nil
	}
	return head.DeploymentID, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	// #nosec G306 - manifest is committed with the project
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func requireDir(path, hint string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s not found; %s", state.ErrConfigMissing, path, hint)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
