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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ClaspProjectFile is the project file clasp writes on create/clone.
const ClaspProjectFile = ".clasp.json"

// ClaspProject is the content of .clasp.json. Fields ascol does not know
// about are kept in Raw so the file can be copied faithfully.
type ClaspProject struct {
	ScriptID string
	RootDir  string
	Raw      map[string]any
}

// ReadClaspProject reads .clasp.json from dir.
func ReadClaspProject(dir string) (*ClaspProject, error) {
	path := filepath.Join(dir, ClaspProjectFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s not found; run \"ascol create\" or \"clasp clone\" first", ErrConfigMissing, ClaspProjectFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ClaspProjectFile, err)
	}

	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrInvalidConfig, ClaspProjectFile, err)
	}

	project := &ClaspProject{Raw: raw}
	if v, ok := raw["scriptId"].(string); ok {
		project.ScriptID = v
	}
	if v, ok := raw["rootDir"].(string); ok {
		project.RootDir = v
	}

	return project, nil
}

// WriteUnrooted writes a copy of the project file into dir without rootDir,
// so clasp operates on dir itself.
func (p *ClaspProject) WriteUnrooted(dir string) error {
	out := make(map[string]any, len(p.Raw))
	for k, v := range p.Raw {
		if k == "rootDir" {
			continue
		}
		out[k] = v
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ClaspProjectFile, err)
	}

	// #nosec G306 - same permissions clasp uses
	if err := os.WriteFile(filepath.Join(dir, ClaspProjectFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ClaspProjectFile, err)
	}
	return nil
}
