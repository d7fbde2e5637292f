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

	"github.com/pigeonworks-llc/ascol/pkg/state"
)

// Severity grades a check finding.
type Severity string

const (
	// SeverityError means a command will fail.
	SeverityError Severity = "error"
	// SeverityWarning means something looks off but commands still work.
	SeverityWarning Severity = "warning"
)

// Finding is one problem found by Check.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// CheckReport collects findings about a project.
type CheckReport struct {
	ConfigPath string    `json:"config_path" yaml:"config_path"`
	Findings   []Finding `json:"findings" yaml:"findings"`
}

// OK reports whether no errors were found.
func (r *CheckReport) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

func (r *CheckReport) add(sev Severity, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Check validates the configuration against the filesystem and, with remote,
// against the live deployment list. Nothing is written.
func (p *Project) Check(ctx context.Context, remote bool) (*CheckReport, error) {
	report := &CheckReport{ConfigPath: p.store.Path(), Findings: []Finding{}}

	cfg, err := p.store.Require()
	if err != nil {
		report.add(SeverityError, "%v", err)
		return report, nil
	}

	claspProject, err := state.ReadClaspProject(p.dir)
	switch {
	case err != nil:
		report.add(SeverityError, "%v", err)
	case cfg.ScriptID == "":
		report.add(SeverityWarning, "scriptId is empty in %s", state.DefaultConfigFile)
	case claspProject.ScriptID != cfg.ScriptID:
		report.add(SeverityError, "scriptId %q does not match %s (%q)", cfg.ScriptID, state.ClaspProjectFile, claspProject.ScriptID)
	}

	if info, err := os.Stat(p.path(cfg.Build.SrcDir)); err != nil || !info.IsDir() {
		report.add(SeverityError, "source directory %q not found", cfg.Build.SrcDir)
	}
	if _, err := os.Stat(p.path(cfg.Build.DistDir)); err != nil {
		report.add(SeverityWarning, "output directory %q not found; run \"ascol build\"", cfg.Build.DistDir)
	}

	if _, ok := cfg.Lookup(state.HeadEnvironment); !ok {
		report.add(SeverityWarning, "no %q environment registered", state.HeadEnvironment)
	}
	for _, env := range cfg.Deployments {
		if !env.Bound() {
			report.add(SeverityWarning, "environment %q has no deployment id; bind one with \"ascol set-id\"", env.Name)
		}
	}

	if !remote {
		return report, nil
	}

	deployments, err := p.client.ListDeployments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	for _, st := range state.Reconcile(cfg, deployments) {
		if st.Status == state.StatusMissing {
			report.add(SeverityError, "environment %q points at deployment %s which no longer exists", st.Name, st.DeploymentID)
		}
	}

	return report, nil
}
