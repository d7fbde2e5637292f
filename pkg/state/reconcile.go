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

import "github.com/pigeonworks-llc/ascol/pkg/clasp"

// EnvironmentStatus represents how a registered environment relates to the remote side.
type EnvironmentStatus string

const (
	// StatusHead indicates the environment tracks the live head deployment.
	StatusHead EnvironmentStatus = "head"
	// StatusDeployed indicates the deployment exists remotely at a fixed version.
	StatusDeployed EnvironmentStatus = "deployed"
	// StatusMissing indicates the id is no longer known to the remote service.
	StatusMissing EnvironmentStatus = "missing"
	// StatusUnbound indicates the environment has no deployment id.
	StatusUnbound EnvironmentStatus = "unbound"
	// StatusUntracked indicates a remote deployment with no local environment.
	StatusUntracked EnvironmentStatus = "untracked"
)

// EnvironmentState is one row of a reconciliation report.
type EnvironmentState struct {
	Name          string            `json:"name,omitempty" yaml:"name,omitempty"`
	DeploymentID  string            `json:"deployment_id,omitempty" yaml:"deployment_id,omitempty"`
	Status        EnvironmentStatus `json:"status" yaml:"status"`
	VersionNumber *int              `json:"version_number,omitempty" yaml:"version_number,omitempty"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// Reconcile compares the local registry with the authoritative remote deployment
// list. Local environments come first in registry order, followed by remote
// deployments nothing local points at.
func Reconcile(cfg *Config, remote []clasp.Deployment) []EnvironmentState {
	states := make([]EnvironmentState, 0, len(cfg.Deployments)+len(remote))
	tracked := make(map[string]struct{}, len(cfg.Deployments))

	for _, env := range cfg.Deployments {
		st := EnvironmentState{Name: env.Name, DeploymentID: env.ID}

		if !env.Bound() {
			st.Status = StatusUnbound
			states = append(states, st)
			continue
		}
		tracked[env.ID] = struct{}{}

		d, found := clasp.FindDeployment(remote, env.ID)
		switch {
		case IsHead(env.Name):
			st.Status = StatusHead
		case !found:
			st.Status = StatusMissing
		case d.IsHead():
			st.Status = StatusHead
			st.Description = d.Description
		default:
			st.Status = StatusDeployed
			st.VersionNumber = d.VersionNumber
			st.Description = d.Description
		}
		states = append(states, st)
	}

	for _, d := range remote {
		if _, ok := tracked[d.DeploymentID]; ok {
			continue
		}
		states = append(states, EnvironmentState{
			DeploymentID:  d.DeploymentID,
			Status:        StatusUntracked,
			VersionNumber: d.VersionNumber,
			Description:   d.Description,
		})
	}

	return states
}
