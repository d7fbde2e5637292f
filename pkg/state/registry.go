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

import (
	"fmt"
	"strings"
)

// UpsertResult tells whether Upsert added or replaced an environment.
type UpsertResult string

const (
	// Created indicates a new environment was appended.
	Created UpsertResult = "created"
	// Updated indicates an existing environment's id was replaced.
	Updated UpsertResult = "updated"
)

// Upsert binds name to id. Existing entries keep their position.
func (c *Config) Upsert(name, id string) UpsertResult {
	for i := range c.Deployments {
		if c.Deployments[i].Name == name {
			c.Deployments[i].ID = id
			return Updated
		}
	}

	c.Deployments = append(c.Deployments, Environment{Name: name, ID: id})
	return Created
}

// Lookup returns the environment registered under name.
func (c *Config) Lookup(name string) (Environment, bool) {
	for _, env := range c.Deployments {
		if env.Name == name {
			return env, true
		}
	}
	return Environment{}, false
}

// LookupByID returns the environment bound to a deployment id.
func (c *Config) LookupByID(id string) (Environment, bool) {
	if id == "" {
		return Environment{}, false
	}
	for _, env := range c.Deployments {
		if env.ID == id {
			return env, true
		}
	}
	return Environment{}, false
}

// IsHead reports whether name refers to the head environment.
func IsHead(name string) bool {
	return strings.EqualFold(name, HeadEnvironment)
}

// AccessURL is a user-facing link for an environment.
type AccessURL struct {
	Label string
	URL   string
}

// AccessURLs returns the web app and library links for an environment.
// Named environments get a library link with a version placeholder because
// only head is tracked without a version.
func AccessURLs(scriptID string, env Environment) []AccessURL {
	if IsHead(env.Name) {
		return []AccessURL{
			{Label: "Web App (Head)", URL: fmt.Sprintf("https://script.google.com/macros/s/%s/dev", env.ID)},
			{Label: "Library (Head)", URL: fmt.Sprintf("https://script.google.com/macros/library/d/%s/head", scriptID)},
		}
	}

	return []AccessURL{
		{Label: "Web App", URL: fmt.Sprintf("https://script.google.com/macros/s/%s/exec", env.ID)},
		{Label: "Library", URL: fmt.Sprintf("https://script.google.com/macros/library/d/%s/[VERSION_NUMBER]", scriptID)},
	}
}

// EditorURL returns the script editor URL for a project.
func EditorURL(scriptID string) string {
	return fmt.Sprintf("https://script.google.com/home/projects/%s/edit", scriptID)
}
