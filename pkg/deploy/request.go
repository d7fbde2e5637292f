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

// Package deploy resolves deploy requests into clasp calls and registry updates.
//
// A request is a mode (create a new deployment, or rebind an existing one)
// crossed with a version source (head, another environment's version, or an
// explicit version number):
//
//	mode    source       action
//	New     head         clasp cuts a new version and a new deployment
//	New     environment  new deployment bound to that environment's remote version
//	New     version      new deployment bound to the version
//	Update  head         rejected; an existing deployment is always version-bound
//	Update  environment  target deployment rebound to that environment's version
//	Update  version      target deployment rebound to the version
package deploy

import (
	"fmt"
	"strings"

	"github.com/pigeonworks-llc/ascol/pkg/state"
)

// Mode selects between creating a deployment and rebinding one.
type Mode int

const (
	// ModeNew creates a new deployment and registers it under a new name.
	ModeNew Mode = iota + 1
	// ModeUpdate rebinds the deployment of a registered environment.
	ModeUpdate
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeNew:
		return "new"
	case ModeUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// SourceKind selects where the deployed version comes from.
type SourceKind int

const (
	// FromHead cuts a new version from the current head.
	FromHead SourceKind = iota + 1
	// FromEnvironment reuses the version another environment is deployed at.
	FromEnvironment
	// ExplicitVersion uses a version number given by the operator.
	ExplicitVersion
)

// String returns the string representation of SourceKind.
func (k SourceKind) String() string {
	switch k {
	case FromHead:
		return "head"
	case FromEnvironment:
		return "environment"
	case ExplicitVersion:
		return "version"
	default:
		return "unknown"
	}
}

// VersionSource is exactly one of head, an environment name, or a version number.
type VersionSource struct {
	Kind        SourceKind
	Environment string
	Version     int
}

// HeadSource returns a version source that cuts a new version from head.
func HeadSource() VersionSource {
	return VersionSource{Kind: FromHead}
}

// EnvironmentSource returns a version source resolved through a registered environment.
func EnvironmentSource(name string) VersionSource {
	return VersionSource{Kind: FromEnvironment, Environment: name}
}

// VersionNumberSource returns a version source pinned to n.
func VersionNumberSource(n int) VersionSource {
	return VersionSource{Kind: ExplicitVersion, Version: n}
}

func (s VersionSource) String() string {
	switch s.Kind {
	case FromEnvironment:
		return fmt.Sprintf("environment %q", s.Environment)
	case ExplicitVersion:
		return fmt.Sprintf("version %d", s.Version)
	default:
		return s.Kind.String()
	}
}

// Request is one deploy invocation. It is never persisted.
type Request struct {
	Mode   Mode
	Source VersionSource
	// Target is the environment to rebind (ModeUpdate).
	Target string
	// Name is the environment to register (ModeNew).
	Name string
	// Description is required when Source is FromHead.
	Description string
}

// Validate checks the request before any remote call.
func (r Request) Validate() error {
	switch r.Mode {
	case ModeNew:
		if strings.TrimSpace(r.Name) == "" {
			return invalidf("a name for the new environment is required (--name)")
		}
	case ModeUpdate:
		if strings.TrimSpace(r.Target) == "" {
			return invalidf("a target environment is required (--target)")
		}
	default:
		return invalidf("exactly one of --new or --target is required")
	}

	switch r.Source.Kind {
	case FromHead:
		if r.Mode == ModeUpdate {
			return invalidf("an existing deployment cannot be updated to head; use --new --src head")
		}
		if strings.TrimSpace(r.Description) == "" {
			return invalidf("a description is required when creating a version from head (--description)")
		}
	case FromEnvironment:
		if strings.TrimSpace(r.Source.Environment) == "" {
			return invalidf("source environment name is empty")
		}
	case ExplicitVersion:
		if r.Source.Version <= 0 {
			return invalidf("version number must be positive, got %d", r.Source.Version)
		}
	default:
		return invalidf("exactly one of --src or --version is required")
	}

	return nil
}

// Flags mirrors the raw deploy command line.
type Flags struct {
	New         bool
	Target      string
	Src         string
	Version     int
	VersionSet  bool
	Name        string
	Description string
}

// ParseRequest turns raw flags into a validated Request. Warnings describe
// options that were accepted but have no effect.
func ParseRequest(f Flags) (Request, []string, error) {
	var req Request
	var warnings []string

	hasTarget := f.Target != ""
	switch {
	case f.New && hasTarget:
		return req, nil, invalidf("--new and --target cannot be combined")
	case f.New:
		req.Mode = ModeNew
	case hasTarget:
		req.Mode = ModeUpdate
	default:
		return req, nil, invalidf("exactly one of --new or --target is required")
	}

	hasSrc := f.Src != ""
	switch {
	case hasSrc && f.VersionSet:
		return req, nil, invalidf("--src and --version cannot be combined")
	case hasSrc && state.IsHead(f.Src):
		req.Source = HeadSource()
	case hasSrc:
		req.Source = EnvironmentSource(f.Src)
	case f.VersionSet:
		req.Source = VersionNumberSource(f.Version)
	default:
		return req, nil, invalidf("exactly one of --src or --version is required")
	}

	req.Target = f.Target
	req.Name = f.Name
	req.Description = f.Description

	if req.Mode == ModeUpdate && f.Name != "" {
		warnings = append(warnings, "--name is ignored when updating an existing environment")
		req.Name = ""
	}
	if req.Source.Kind != FromHead && f.Description != "" {
		warnings = append(warnings, "--description is ignored unless a new version is created from head")
		req.Description = ""
	}

	if err := req.Validate(); err != nil {
		return Request{}, nil, err
	}

	return req, warnings, nil
}
