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
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var configSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(configSchema)

// Validate checks raw configuration bytes against the embedded schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if !result.Valid() {
		var b strings.Builder
		for _, desc := range result.Errors() {
			fmt.Fprintf(&b, "\n  - %s: %s", desc.Field(), desc.Description())
		}
		return fmt.Errorf("%w:%s", ErrInvalidConfig, b.String())
	}

	return nil
}

// validateRegistry enforces what the schema cannot express.
func validateRegistry(envs []Environment) error {
	seen := make(map[string]struct{}, len(envs))
	for _, env := range envs {
		if _, dup := seen[env.Name]; dup {
			return fmt.Errorf("%w: duplicate environment name %q", ErrInvalidConfig, env.Name)
		}
		seen[env.Name] = struct{}{}
	}
	return nil
}
