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

package clasp

import (
	"context"
	"encoding/json"
)

// Deployment is a remote deployment as reported by `clasp deployments --json`.
type Deployment struct {
	DeploymentID string `json:"deploymentId" yaml:"deployment_id"`
	// VersionNumber is nil for the unversioned head deployment.
	VersionNumber *int   `json:"versionNumber,omitempty" yaml:"version_number,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsHead reports whether the deployment tracks head instead of a fixed version.
func (d Deployment) IsHead() bool {
	return d.VersionNumber == nil
}

// UnmarshalJSON accepts both the flat shape and the nested deploymentConfig shape.
func (d *Deployment) UnmarshalJSON(data []byte) error {
	var raw struct {
		DeploymentID     string  `json:"deploymentId"`
		VersionNumber    *int    `json:"versionNumber"`
		Description      *string `json:"description"`
		DeploymentConfig *struct {
			VersionNumber *int   `json:"versionNumber"`
			Description   string `json:"description"`
		} `json:"deploymentConfig"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.DeploymentID = raw.DeploymentID
	d.VersionNumber = raw.VersionNumber
	if raw.Description != nil {
		d.Description = *raw.Description
	}

	if cfg := raw.DeploymentConfig; cfg != nil {
		if d.VersionNumber == nil {
			d.VersionNumber = cfg.VersionNumber
		}
		if d.Description == "" {
			d.Description = cfg.Description
		}
	}

	return nil
}

// ListDeployments returns the authoritative remote deployment list.
func (c *Client) ListDeployments(ctx context.Context) ([]Deployment, error) {
	var deployments []Deployment
	if err := c.RunStructured(ctx, &deployments, "deployments", "--json"); err != nil {
		return nil, err
	}
	if deployments == nil {
		deployments = []Deployment{}
	}
	return deployments, nil
}

// FindDeployment returns the deployment with the given id.
func FindDeployment(deployments []Deployment, id string) (Deployment, bool) {
	for _, d := range deployments {
		if d.DeploymentID == id {
			return d, true
		}
	}
	return Deployment{}, false
}

// HeadDeployment returns the first unversioned deployment.
func HeadDeployment(deployments []Deployment) (Deployment, bool) {
	for _, d := range deployments {
		if d.IsHead() {
			return d, true
		}
	}
	return Deployment{}, false
}
