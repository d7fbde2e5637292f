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

package build

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// clientMatcher decides whether a file lives under a client directory.
type clientMatcher struct {
	prefixes []string
	patterns []string
}

func newClientMatcher(dirs []string) clientMatcher {
	var m clientMatcher
	for _, dir := range dirs {
		dir = normalizeDir(dir)
		if dir == "" {
			continue
		}
		if strings.ContainsAny(dir, "*?[{") {
			m.patterns = append(m.patterns, dir+"/**")
			continue
		}
		m.prefixes = append(m.prefixes, dir)
	}
	return m
}

func normalizeDir(dir string) string {
	dir = strings.ReplaceAll(strings.TrimSpace(dir), "\\", "/")
	if dir == "" {
		return ""
	}
	dir = path.Clean(dir)
	dir = strings.TrimPrefix(dir, "./")
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.TrimSuffix(dir, "/")
}

// matches reports whether any of the candidate slash paths is inside a client dir.
func (m clientMatcher) matches(candidates ...string) bool {
	for _, p := range candidates {
		for _, prefix := range m.prefixes {
			if strings.HasPrefix(p, prefix+"/") {
				return true
			}
		}
		for _, pattern := range m.patterns {
			if ok, _ := doublestar.Match(pattern, p); ok {
				return true
			}
		}
	}
	return false
}
