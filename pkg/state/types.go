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

// Package state provides the ascol project configuration and its environment registry.
package state

import "errors"

const (
	// DefaultConfigFile is the project configuration file name.
	DefaultConfigFile = "ascol.json"
	// DefaultSrcDir is the source tree used when none is configured.
	DefaultSrcDir = "src"
	// DefaultDistDir is the build output used when none is configured.
	DefaultDistDir = "dist"
	// HeadEnvironment is the environment bound to the unversioned head deployment.
	HeadEnvironment = "head"
)

// DefaultClientSourceDirs are the directories whose scripts run in the browser.
var DefaultClientSourceDirs = []string{"src/client/"}

var (
	// ErrConfigMissing is returned when a required project file does not exist.
	ErrConfigMissing = errors.New("configuration missing")
	// ErrInvalidConfig is returned when a project file fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the entire ascol.json structure.
type Config struct {
	ScriptID    string        `json:"scriptId"`
	Build       BuildConfig   `json:"build"`
	Deployments []Environment `json:"deployments"`
}

// BuildConfig holds build paths.
type BuildConfig struct {
	SrcDir    string          `json:"srcDir"`
	DistDir   string          `json:"distDir"`
	Transpile TranspileConfig `json:"transpile"`
}

// TranspileConfig selects which files are wrapped into HTML.
type TranspileConfig struct {
	ClientSourceDirs []string `json:"clientSourceDirs"`
}

// Environment is a named deployment slot. An empty ID means it is registered
// but not bound to a remote deployment yet.
type Environment struct {
	Name string `json:"name" yaml:"name"`
	ID   string `json:"id" yaml:"id"`
}

// Bound reports whether the environment has a deployment id.
func (e Environment) Bound() bool {
	return e.ID != ""
}

// DefaultConfig returns an empty project configuration with default build paths.
func DefaultConfig() *Config {
	return &Config{
		Build: BuildConfig{
			SrcDir:  DefaultSrcDir,
			DistDir: DefaultDistDir,
			Transpile: TranspileConfig{
				ClientSourceDirs: append([]string(nil), DefaultClientSourceDirs...),
			},
		},
		Deployments: []Environment{},
	}
}

// applyDefaults fills fields left empty in the file.
func (c *Config) applyDefaults() {
	if c.Build.SrcDir == "" {
		c.Build.SrcDir = DefaultSrcDir
	}
	if c.Build.DistDir == "" {
		c.Build.DistDir = DefaultDistDir
	}
	if c.Build.Transpile.ClientSourceDirs == nil {
		c.Build.Transpile.ClientSourceDirs = append([]string(nil), DefaultClientSourceDirs...)
	}
	if c.Deployments == nil {
		c.Deployments = []Environment{}
	}
}
