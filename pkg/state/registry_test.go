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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Upsert(t *testing.T) {
	t.Run("creates new environment", func(t *testing.T) {
		cfg := DefaultConfig()

		result := cfg.Upsert("stage", "X")
		assert.Equal(t, Created, result)
		require.Len(t, cfg.Deployments, 1)
		assert.Equal(t, Environment{Name: "stage", ID: "X"}, cfg.Deployments[0])
	})

	t.Run("updates existing environment in place", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Upsert("head", "H")
		cfg.Upsert("stage", "X")
		cfg.Upsert("prod", "P")

		result := cfg.Upsert("stage", "Y")
		assert.Equal(t, Updated, result)
		require.Len(t, cfg.Deployments, 3)
		assert.Equal(t, Environment{Name: "stage", ID: "Y"}, cfg.Deployments[1])
	})

	t.Run("names are case-sensitive", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Upsert("Prod", "A")
		assert.Equal(t, Created, cfg.Upsert("prod", "B"))
		assert.Len(t, cfg.Deployments, 2)
	})

	t.Run("upsert then lookup returns the id and grows by at most one", func(t *testing.T) {
		cfg := DefaultConfig()
		names := []string{"head", "stage", "prod", "stage", "qa", "head", "prod"}

		for i, name := range names {
			before := len(cfg.Deployments)
			id := fmt.Sprintf("id-%d", i)

			cfg.Upsert(name, id)

			env, ok := cfg.Lookup(name)
			require.True(t, ok)
			assert.Equal(t, id, env.ID)

			after := len(cfg.Deployments)
			assert.GreaterOrEqual(t, after, before)
			assert.LessOrEqual(t, after-before, 1)
		}
		assert.Len(t, cfg.Deployments, 4)
	})
}

func TestConfig_Lookup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upsert("stage", "X")

	t.Run("gets existing environment", func(t *testing.T) {
		env, ok := cfg.Lookup("stage")
		require.True(t, ok)
		assert.Equal(t, "X", env.ID)
	})

	t.Run("reports missing environment", func(t *testing.T) {
		_, ok := cfg.Lookup("prod")
		assert.False(t, ok)
	})

	t.Run("finds environment by id", func(t *testing.T) {
		env, ok := cfg.LookupByID("X")
		require.True(t, ok)
		assert.Equal(t, "stage", env.Name)

		_, ok = cfg.LookupByID("")
		assert.False(t, ok)
	})
}

func TestAccessURLs(t *testing.T) {
	t.Run("head gets dev and head links", func(t *testing.T) {
		for _, name := range []string{"head", "HEAD", "Head"} {
			urls := AccessURLs("SCRIPT", Environment{Name: name, ID: "DEP"})
			require.Len(t, urls, 2)
			assert.Equal(t, "https://script.google.com/macros/s/DEP/dev", urls[0].URL)
			assert.Equal(t, "https://script.google.com/macros/library/d/SCRIPT/head", urls[1].URL)
		}
	})

	t.Run("named environments get exec and versioned library links", func(t *testing.T) {
		urls := AccessURLs("SCRIPT", Environment{Name: "prod", ID: "DEP"})
		require.Len(t, urls, 2)
		assert.Equal(t, "https://script.google.com/macros/s/DEP/exec", urls[0].URL)
		assert.Equal(t, "https://script.google.com/macros/library/d/SCRIPT/[VERSION_NUMBER]", urls[1].URL)
	})
}
