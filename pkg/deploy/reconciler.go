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

package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/state"
)

// Remote is the part of clasp the reconciler needs.
type Remote interface {
	ListDeployments(ctx context.Context) ([]clasp.Deployment, error)
	Deploy(ctx context.Context, args clasp.DeployArgs) (string, error)
}

// Store loads and saves the project configuration.
type Store interface {
	Load() (*state.Config, error)
	Save(cfg *state.Config) error
}

// Plan is a fully resolved request: everything is known except the outcome.
type Plan struct {
	Request Request
	// TargetID is the deployment being rebound (ModeUpdate).
	TargetID string
	// Version is the resolved version number; zero when cutting from head.
	Version int
	Args    clasp.DeployArgs
}

// Result describes a completed deploy.
type Result struct {
	Plan         *Plan
	Output       string
	DeploymentID string
	// Version is the version clasp reported, zero if it was not printed.
	Version int
	// Upsert is set when the registry changed.
	Upsert state.UpsertResult
}

// Reconciler drives one deploy request against clasp and the registry.
type Reconciler struct {
	remote Remote
	store  Store
	logger *slog.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(remote Remote, store Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		remote: remote,
		store:  store,
		logger: logger,
	}
}

// Plan validates req and resolves ids and version numbers. It performs only
// read-only remote calls.
func (r *Reconciler) Plan(ctx context.Context, req Request) (*Plan, error) {
	plan, _, err := r.plan(ctx, req)
	return plan, err
}

func (r *Reconciler) plan(ctx context.Context, req Request) (*Plan, *state.Config, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	cfg, err := r.store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load registry: %w", err)
	}

	plan := &Plan{Request: req}

	// Resolve the target first so an unknown name fails before any remote call.
	if req.Mode == ModeUpdate {
		target, err := resolveEnvironment(cfg, req.Target)
		if err != nil {
			return nil, nil, err
		}
		plan.TargetID = target.ID
	}

	switch req.Source.Kind {
	case FromHead:
		plan.Args = clasp.DeployArgs{Description: req.Description}
		return plan, cfg, nil
	case ExplicitVersion:
		plan.Version = req.Source.Version
	case FromEnvironment:
		version, err := r.resolveVersion(ctx, cfg, req.Source.Environment)
		if err != nil {
			return nil, nil, err
		}
		plan.Version = version
	}

	plan.Args = clasp.DeployArgs{
		DeploymentID:  plan.TargetID,
		VersionNumber: plan.Version,
	}
	return plan, cfg, nil
}

func resolveEnvironment(cfg *state.Config, name string) (state.Environment, error) {
	env, ok := cfg.Lookup(name)
	if !ok {
		return env, fmt.Errorf("%w: %q is not registered", ErrUnknownEnvironment, name)
	}
	if !env.Bound() {
		return env, fmt.Errorf("%w: %q has no deployment id; bind one with set-id", ErrUnknownEnvironment, name)
	}
	return env, nil
}

// resolveVersion returns the version the environment's deployment is bound to right now.
func (r *Reconciler) resolveVersion(ctx context.Context, cfg *state.Config, name string) (int, error) {
	env, err := resolveEnvironment(cfg, name)
	if err != nil {
		return 0, err
	}

	deployments, err := r.remote.ListDeployments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote deployments: %w", err)
	}

	d, ok := clasp.FindDeployment(deployments, env.ID)
	if !ok {
		return 0, fmt.Errorf("%w: %q (%s)", ErrRemoteDeploymentNotFound, name, env.ID)
	}
	if d.IsHead() {
		return 0, invalidf("environment %q is the unversioned head deployment; use --src head to cut a version", name)
	}

	r.logger.Debug("resolved source version",
		"environment", name,
		"deployment_id", env.ID,
		"version", *d.VersionNumber)

	return *d.VersionNumber, nil
}

// Reconcile resolves req, runs clasp deploy, and for new deployments registers
// the id clasp reports. The registry is saved only after everything succeeded.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) (*Result, error) {
	plan, cfg, err := r.plan(ctx, req)
	if err != nil {
		return nil, err
	}

	r.logger.Info("deploying",
		"mode", req.Mode,
		"source", req.Source.String(),
		"args", plan.Args.Argv())

	output, err := r.remote.Deploy(ctx, plan.Args)
	if err != nil {
		return nil, fmt.Errorf("clasp deploy failed: %w", err)
	}

	result := &Result{Plan: plan, Output: output}

	if req.Mode == ModeUpdate {
		result.DeploymentID = plan.TargetID
		result.Version = plan.Version
		return result, nil
	}

	deployed, err := ParseDeployOutput(output)
	if err != nil {
		return nil, &PostDeployError{Environment: req.Name, Output: output, Err: err}
	}
	result.DeploymentID = deployed.ID
	result.Version = deployed.Version

	result.Upsert = cfg.Upsert(req.Name, deployed.ID)
	if err := r.store.Save(cfg); err != nil {
		return nil, &PostDeployError{
			DeploymentID: deployed.ID,
			Environment:  req.Name,
			Output:       output,
			Err:          fmt.Errorf("failed to save registry: %w", err),
		}
	}

	r.logger.Info("registered deployment",
		"environment", req.Name,
		"deployment_id", deployed.ID,
		"version", deployed.Version,
		"result", result.Upsert)

	return result, nil
}
