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
	"bufio"
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Version is an immutable numbered snapshot of the script project.
type Version struct {
	Number      int    `json:"number" yaml:"number"`
	Description string `json:"description" yaml:"description"`
}

var (
	// "- 5 - initial release" or "5 - initial release"
	markedVersionLine = regexp.MustCompile(`^(?:-\s+)?(\d+)\s+-\s+(.*)$`)
	// "5 initial release"
	plainVersionLine = regexp.MustCompile(`^(\d+)\s+(.*)$`)
)

// ListVersions runs `clasp versions` and parses its text output.
func (c *Client) ListVersions(ctx context.Context) ([]Version, error) {
	out, err := c.RunCaptured(ctx, "versions")
	if err != nil {
		return nil, err
	}
	return ParseVersions(out), nil
}

// ParseVersions parses version listing text in source order. Lines that match
// neither known format are dropped.
func ParseVersions(text string) []Version {
	versions := []Version{}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if v, ok := ParseVersionLine(line); ok {
			versions = append(versions, v)
		}
	}

	return versions
}

// ParseVersionLine parses a single version line. The first matching format wins.
func ParseVersionLine(line string) (Version, bool) {
	for _, re := range []*regexp.Regexp{markedVersionLine, plainVersionLine} {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return Version{Number: n, Description: strings.TrimSpace(m[2])}, true
	}
	return Version{}, false
}
