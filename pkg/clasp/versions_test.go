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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVersionLine(t *testing.T) {
	tests := []struct {
		line   string
		want   Version
		wantOK bool
	}{
		{"- 5 - initial release", Version{5, "initial release"}, true},
		{"5 - initial release", Version{5, "initial release"}, true},
		{"5 initial release", Version{5, "initial release"}, true},
		{"12 - fix - with dashes", Version{12, "fix - with dashes"}, true},
		{"garbage", Version{}, false},
		{"Found 3 versions.", Version{}, false},
		{"- no number here", Version{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseVersionLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersions(t *testing.T) {
	t.Run("keeps source order and drops malformed lines", func(t *testing.T) {
		text := "  - 1 - first\n\ngarbage\n- 2 - second\r\nnope nope\n3 third\n"

		got := ParseVersions(text)
		assert.Equal(t, []Version{
			{Number: 1, Description: "first"},
			{Number: 2, Description: "second"},
			{Number: 3, Description: "third"},
		}, got)
	})

	t.Run("returns empty slice for empty input", func(t *testing.T) {
		got := ParseVersions("")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
