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

	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"golang.org/x/sync/errgroup"
)

// UntrackedLabel tags versions bound to deployments no environment points at.
const UntrackedLabel = "[untracked]"

// VersionEntry is one row of the version history.
type VersionEntry struct {
	Number       int      `json:"number" yaml:"number"`
	Description  string   `json:"description" yaml:"description"`
	Environments []string `json:"environments,omitempty" yaml:"environments,omitempty"`
}

// Summary is the read-only view printed by `list`.
type Summary struct {
	ScriptID     string                   `json:"script_id" yaml:"script_id"`
	ConfigPath   string                   `json:"config_path" yaml:"config_path"`
	Environments []state.Environment      `json:"environments" yaml:"environments"`
	Remote       bool                     `json:"remote" yaml:"remote"`
	States       []state.EnvironmentState `json:"states,omitempty" yaml:"states,omitempty"`
	// Versions are most recent first.
	Versions []VersionEntry `json:"versions,omitempty" yaml:"versions,omitempty"`
	Warnings []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Summarize reports the registry, and with remote the live deployment state
// and version history. Nothing is written.
func (p *Project) Summarize(ctx context.Context, remote bool) (*Summary, error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		ScriptID:     cfg.ScriptID,
		ConfigPath:   p.store.Path(),
		Environments: cfg.Deployments,
		Remote:       remote,
	}
	if !remote {
		return summary, nil
	}

	var (
		deployments []clasp.Deployment
		versions    []clasp.Version
		versionsErr error
	)

	// Deployments and versions do not depend on each other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := p.client.ListDeployments(gctx)
		if err != nil {
			return fmt.Errorf("failed to list deployments: %w", err)
		}
		deployments = list
		return nil
	})
	g.Go(func() error {
		// A missing history is not worth failing the listing for.
		versions, versionsErr = p.client.ListVersions(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if versionsErr != nil {
		p.logger.Warn("failed to list versions", "error", versionsErr)
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("version history unavailable: %v", versionsErr))
		versions = nil
	}

	summary.States = state.Reconcile(cfg, deployments)
	summary.Versions = versionHistory(cfg, deployments, versions)
	return summary, nil
}

// versionHistory reverses versions to most recent first and tags each with
// the environments deployed at it.
func versionHistory(cfg *state.Config, deployments []clasp.Deployment, versions []clasp.Version) []VersionEntry {
	entries := make([]VersionEntry, 0, len(versions))

	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		entry := VersionEntry{Number: v.Number, Description: v.Description}

		for _, d := range deployments {
			if d.VersionNumber == nil || *d.VersionNumber != v.Number {
				continue
			}
			if env, ok := cfg.LookupByID(d.DeploymentID); ok {
				entry.Environments = append(entry.Environments, env.Name)
			} else {
				entry.Environments = append(entry.Environments, UntrackedLabel)
			}
		}

		entries = append(entries, entry)
	}

	return entries
}
