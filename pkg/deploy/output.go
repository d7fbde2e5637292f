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

package deploy

import (
	"fmt"
	"regexp"
	"strconv"
)

// "Deployed AKfycb... @12"
var deployedLine = regexp.MustCompile(`Deployed\s+([^\s@]+)\s*@(\d+)`)

// Deployed identifies the deployment clasp reported.
type Deployed struct {
	ID      string
	Version int
}

// ParseDeployOutput extracts the deployment id and version from clasp deploy output.
func ParseDeployOutput(output string) (Deployed, error) {
	m := deployedLine.FindStringSubmatch(output)
	if m == nil {
		return Deployed{}, ErrDeployOutputUnparseable
	}

	version, err := strconv.Atoi(m[2])
	if err != nil {
		return Deployed{}, fmt.Errorf("%w: version %q: %v", ErrDeployOutputUnparseable, m[2], err)
	}

	return Deployed{ID: m[1], Version: version}, nil
}
