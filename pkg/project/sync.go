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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pigeonworks-llc/ascol/pkg/build"
	"github.com/pigeonworks-llc/ascol/pkg/state"
)

// ErrManifestNotPulled is returned when clasp pull did not produce a manifest.
var ErrManifestNotPulled = errors.New("appsscript.json was not found in the downloaded files")

// PushOptions configures Push.
type PushOptions struct {
	SkipBuild bool
}

// PushResult describes a push.
type PushResult struct {
	// Actions is nil when the build was skipped.
	Actions []build.Action
}

// Push builds (unless skipped) and pushes the output directory with `clasp push -f`.
func (p *Project) Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	if !exists(filepath.Join(p.dir, state.ClaspProjectFile)) {
		return nil, fmt.Errorf("%w: %s not found; run \"ascol create\" or \"clasp clone\" first", state.ErrConfigMissing, state.ClaspProjectFile)
	}

	result := &PushResult{}
	if !opts.SkipBuild {
		actions, err := p.build(cfg)
		if err != nil {
			return nil, err
		}
		result.Actions = actions
	}

	if err := requireDir(p.path(cfg.Build.DistDir), "run \"ascol build\" first"); err != nil {
		return nil, err
	}

	if err := p.client.Push(ctx); err != nil {
		return nil, fmt.Errorf("clasp push failed: %w", err)
	}
	return result, nil
}

// PullResult lists where the manifest was written.
type PullResult struct {
	Targets []string
}

// PullConfig fetches the remote manifest into the source and output trees.
// clasp runs in a throwaway workspace whose .clasp.json has no rootDir, so the
// pull is not constrained to the output directory. The workspace is removed
// whatever the outcome.
func (p *Project) PullConfig(ctx context.Context) (result *PullResult, err error) {
	cfg, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	claspProject, err := state.ReadClaspProject(p.dir)
	if err != nil {
		return nil, err
	}

	ws, err := p.workspaces.Prepare()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := p.workspaces.Cleanup(ws); cerr != nil {
			p.logger.Warn("failed to remove workspace", "dir", ws.Dir, "error", cerr)
		}
	}()

	if err := claspProject.WriteUnrooted(ws.Dir); err != nil {
		return nil, err
	}

	p.logger.Debug("pulling into workspace", "dir", ws.Dir)
	if err := p.client.WithDir(ws.Dir).Pull(ctx); err != nil {
		return nil, fmt.Errorf("clasp pull failed: %w", err)
	}

	downloaded := filepath.Join(ws.Dir, build.ManifestFile)
	if !exists(downloaded) {
		return nil, ErrManifestNotPulled
	}

	result = &PullResult{}
	for _, dir := range []string{cfg.Build.SrcDir, cfg.Build.DistDir} {
		target := filepath.Join(p.path(dir), build.ManifestFile)
		if err := copyFile(downloaded, target); err != nil {
			return nil, err
		}
		result.Targets = append(result.Targets, target)
	}
	return result, nil
}
