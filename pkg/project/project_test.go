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

package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/deploy"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/pigeonworks-llc/ascol/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	args []string
	dir  string
}

type handler func(args []string, opts clasp.ExecOptions) (string, error)

// scriptedExecutor answers clasp calls by subcommand.
type scriptedExecutor struct {
	mu       sync.Mutex
	handlers map[string]handler
	calls    []call
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{handlers: map[string]handler{}}
}

func (e *scriptedExecutor) on(sub string, h handler) {
	e.handlers[sub] = h
}

func (e *scriptedExecutor) reply(sub, out string) {
	e.on(sub, func([]string, clasp.ExecOptions) (string, error) { return out, nil })
}

func (e *scriptedExecutor) Execute(_ context.Context, _ string, args []string, opts clasp.ExecOptions) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, call{args: args, dir: opts.Dir})
	h := e.handlers[args[0]]
	e.mu.Unlock()

	if h == nil {
		return "", &clasp.ToolError{Command: "clasp", Args: args, ExitCode: 1, Stderr: "unexpected call"}
	}
	return h(args, opts)
}

func (e *scriptedExecutor) called(sub string) []call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []call
	for _, c := range e.calls {
		if c.args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func newTestProject(t *testing.T, exec *scriptedExecutor) *Project {
	t.Helper()
	dir := t.TempDir()
	store := state.NewManager(dir, "")
	client := clasp.NewClient("clasp", exec, nil)
	ws := workspace.NewManager(&workspace.Config{Root: t.TempDir(), Prefix: "pull-"})
	return New(store, client, WithWorkspaces(ws))
}

const deploymentsJSON = `[
  {"deploymentId": "HEAD1"},
  {"deploymentId": "STAGE1", "versionNumber": 3, "description": "stage"},
  {"deploymentId": "LOOSE1", "versionNumber": 2, "description": "manual"}
]`

func TestProject_Create(t *testing.T) {
	exec := newScriptedExecutor()
	exec.on("create", func(args []string, opts clasp.ExecOptions) (string, error) {
		writeJSON(t, filepath.Join(opts.Dir, ".clasp.json"), map[string]string{"scriptId": "SCRIPT", "rootDir": "./dist"})
		writeJSON(t, filepath.Join(opts.Dir, "dist", "appsscript.json"), map[string]string{"timeZone": "UTC"})
		return "Created new script", nil
	})
	exec.reply("deployments", deploymentsJSON)

	p := newTestProject(t, exec)
	result, err := p.Create(context.Background(), CreateOptions{Title: "Demo", Type: "webapp"})
	require.NoError(t, err)

	assert.Equal(t, "SCRIPT", result.ScriptID)
	assert.Equal(t, "HEAD1", result.HeadID)
	assert.True(t, result.ManifestCopied)
	assert.FileExists(t, filepath.Join(p.Dir(), "src", "appsscript.json"))

	creates := exec.called("create")
	require.Len(t, creates, 1)
	assert.Equal(t, []string{"create", "--title", "Demo", "--rootDir", "./dist", "--type", "webapp"}, creates[0].args)
	assert.Equal(t, p.Dir(), creates[0].dir)

	cfg, err := p.Store().Require()
	require.NoError(t, err)
	assert.Equal(t, "SCRIPT", cfg.ScriptID)
	assert.Equal(t, []state.Environment{{Name: "head", ID: "HEAD1"}}, cfg.Deployments)
}

func TestProject_CreateRequiresTitle(t *testing.T) {
	exec := newScriptedExecutor()
	p := newTestProject(t, exec)

	_, err := p.Create(context.Background(), CreateOptions{})
	assert.ErrorIs(t, err, deploy.ErrInvalidRequest)
	assert.Empty(t, exec.calls)
}

func TestProject_Init(t *testing.T) {
	t.Run("registers head and creates directories", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", deploymentsJSON)
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})

		result, err := p.Init(context.Background(), InitOptions{SrcDir: "app", DistDir: "out"})
		require.NoError(t, err)
		assert.Equal(t, "HEAD1", result.HeadID)

		cfg, err := p.Store().Require()
		require.NoError(t, err)
		assert.Equal(t, "app", cfg.Build.SrcDir)
		assert.Equal(t, "out", cfg.Build.DistDir)
		assert.Equal(t, []state.Environment{{Name: "head", ID: "HEAD1"}}, cfg.Deployments)
		assert.DirExists(t, filepath.Join(p.Dir(), "app"))
		assert.DirExists(t, filepath.Join(p.Dir(), "src", "client"))
	})

	t.Run("no head deployment leaves registry empty", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", `[]`)
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})

		_, err := p.Init(context.Background(), InitOptions{})
		require.NoError(t, err)

		cfg, err := p.Store().Require()
		require.NoError(t, err)
		assert.Empty(t, cfg.Deployments)
	})

	t.Run("requires clasp project", func(t *testing.T) {
		exec := newScriptedExecutor()
		p := newTestProject(t, exec)

		_, err := p.Init(context.Background(), InitOptions{})
		assert.ErrorIs(t, err, state.ErrConfigMissing)
		assert.False(t, p.Store().Exists())
	})
}

func TestProject_Push(t *testing.T) {
	t.Run("builds then pushes", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("push", "Pushed 2 files.")
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})
		require.NoError(t, os.MkdirAll(filepath.Join(p.Dir(), "src", "client"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(p.Dir(), "src", "client", "ui.js"), []byte("ui()"), 0o644))

		result, err := p.Push(context.Background(), PushOptions{})
		require.NoError(t, err)
		assert.Len(t, result.Actions, 1)
		assert.FileExists(t, filepath.Join(p.Dir(), "dist", "client", "ui.js.html"))

		pushes := exec.called("push")
		require.Len(t, pushes, 1)
		assert.Equal(t, []string{"push", "-f"}, pushes[0].args)
	})

	t.Run("skip build requires output directory", func(t *testing.T) {
		exec := newScriptedExecutor()
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})

		_, err := p.Push(context.Background(), PushOptions{SkipBuild: true})
		assert.ErrorIs(t, err, state.ErrConfigMissing)
		assert.Empty(t, exec.called("push"))
	})

	t.Run("requires clasp project", func(t *testing.T) {
		exec := newScriptedExecutor()
		p := newTestProject(t, exec)

		_, err := p.Push(context.Background(), PushOptions{})
		assert.ErrorIs(t, err, state.ErrConfigMissing)
	})
}

func TestProject_PullConfig(t *testing.T) {
	t.Run("copies manifest into source and output", func(t *testing.T) {
		exec := newScriptedExecutor()
		var pullDir string
		exec.on("pull", func(_ []string, opts clasp.ExecOptions) (string, error) {
			pullDir = opts.Dir
			data, err := os.ReadFile(filepath.Join(opts.Dir, ".clasp.json"))
			require.NoError(t, err)
			assert.NotContains(t, string(data), "rootDir")
			writeJSON(t, filepath.Join(opts.Dir, "appsscript.json"), map[string]string{"runtimeVersion": "V8"})
			return "Cloned 2 files.", nil
		})
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT", "rootDir": "./dist"})

		result, err := p.PullConfig(context.Background())
		require.NoError(t, err)
		assert.Len(t, result.Targets, 2)

		for _, dir := range []string{"src", "dist"} {
			data, err := os.ReadFile(filepath.Join(p.Dir(), dir, "appsscript.json"))
			require.NoError(t, err)
			assert.JSONEq(t, `{"runtimeVersion":"V8"}`, string(data))
		}

		assert.NotEqual(t, p.Dir(), pullDir)
		assert.NoDirExists(t, pullDir)
	})

	t.Run("workspace removed when pull fails", func(t *testing.T) {
		exec := newScriptedExecutor()
		var pullDir string
		exec.on("pull", func(_ []string, opts clasp.ExecOptions) (string, error) {
			pullDir = opts.Dir
			return "", &clasp.ToolError{Command: "clasp", ExitCode: 1}
		})
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})

		_, err := p.PullConfig(context.Background())
		assert.ErrorIs(t, err, clasp.ErrToolFailed)
		assert.NoDirExists(t, pullDir)
	})

	t.Run("missing manifest", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("pull", "Cloned 0 files.")
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})

		_, err := p.PullConfig(context.Background())
		assert.ErrorIs(t, err, ErrManifestNotPulled)
		assert.NoFileExists(t, filepath.Join(p.Dir(), "src", "appsscript.json"))
	})
}

func TestProject_SetID(t *testing.T) {
	exec := newScriptedExecutor()
	p := newTestProject(t, exec)
	require.NoError(t, p.Store().Save(&state.Config{ScriptID: "SCRIPT"}))

	result, err := p.SetID("prod", "P1")
	require.NoError(t, err)
	assert.Equal(t, state.Created, result.Upsert)
	require.Len(t, result.URLs, 2)
	assert.Equal(t, "https://script.google.com/macros/s/P1/exec", result.URLs[0].URL)

	result, err = p.SetID("prod", "P2")
	require.NoError(t, err)
	assert.Equal(t, state.Updated, result.Upsert)

	cfg, err := p.Store().Load()
	require.NoError(t, err)
	assert.Equal(t, []state.Environment{{Name: "prod", ID: "P2"}}, cfg.Deployments)
	assert.Empty(t, exec.calls)

	_, err = p.SetID("", "X")
	assert.ErrorIs(t, err, deploy.ErrInvalidRequest)
}

func TestProject_Summarize(t *testing.T) {
	newProject := func(t *testing.T, exec *scriptedExecutor) *Project {
		p := newTestProject(t, exec)
		cfg := state.DefaultConfig()
		cfg.ScriptID = "SCRIPT"
		cfg.Upsert("head", "HEAD1")
		cfg.Upsert("stage", "STAGE1")
		require.NoError(t, p.Store().Save(cfg))
		return p
	}

	t.Run("local only makes no remote calls", func(t *testing.T) {
		exec := newScriptedExecutor()
		p := newProject(t, exec)

		summary, err := p.Summarize(context.Background(), false)
		require.NoError(t, err)
		assert.Len(t, summary.Environments, 2)
		assert.Nil(t, summary.States)
		assert.Empty(t, exec.calls)
	})

	t.Run("remote merges deployments and versions", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", deploymentsJSON)
		exec.reply("versions", "~ 3 Versions ~\n1 - first\n2 - second\n3 - third\n")
		p := newProject(t, exec)

		summary, err := p.Summarize(context.Background(), true)
		require.NoError(t, err)

		require.Len(t, summary.States, 3)
		assert.Equal(t, state.StatusHead, summary.States[0].Status)
		assert.Equal(t, state.StatusDeployed, summary.States[1].Status)
		assert.Equal(t, state.StatusUntracked, summary.States[2].Status)

		require.Len(t, summary.Versions, 3)
		assert.Equal(t, VersionEntry{Number: 3, Description: "third", Environments: []string{"stage"}}, summary.Versions[0])
		assert.Equal(t, VersionEntry{Number: 2, Description: "second", Environments: []string{UntrackedLabel}}, summary.Versions[1])
		assert.Equal(t, VersionEntry{Number: 1, Description: "first"}, summary.Versions[2])
		assert.Empty(t, summary.Warnings)
	})

	t.Run("version failure degrades to warning", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", deploymentsJSON)
		p := newProject(t, exec)

		summary, err := p.Summarize(context.Background(), true)
		require.NoError(t, err)
		assert.Len(t, summary.States, 3)
		assert.Empty(t, summary.Versions)
		assert.Len(t, summary.Warnings, 1)
	})

	t.Run("deployment failure fails", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", "not json")
		exec.reply("versions", "1 - first")
		p := newProject(t, exec)

		_, err := p.Summarize(context.Background(), true)
		assert.ErrorIs(t, err, clasp.ErrRemoteParse)
	})
}

func TestProject_Clean(t *testing.T) {
	exec := newScriptedExecutor()
	p := newTestProject(t, exec)
	dist := filepath.Join(p.Dir(), "dist")
	require.NoError(t, os.MkdirAll(filepath.Join(dist, "client"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "appsscript.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dist, "main.js"), []byte("x"), 0o644))

	removed, err := p.Clean()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"client", "main.js"}, removed)
	assert.FileExists(t, filepath.Join(dist, "appsscript.json"))
}

func TestProject_Check(t *testing.T) {
	t.Run("missing config is an error", func(t *testing.T) {
		p := newTestProject(t, newScriptedExecutor())

		report, err := p.Check(context.Background(), false)
		require.NoError(t, err)
		assert.False(t, report.OK())
	})

	t.Run("healthy project", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", deploymentsJSON)
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "SCRIPT"})
		require.NoError(t, os.MkdirAll(filepath.Join(p.Dir(), "src"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(p.Dir(), "dist"), 0o755))

		cfg := state.DefaultConfig()
		cfg.ScriptID = "SCRIPT"
		cfg.Upsert("head", "HEAD1")
		cfg.Upsert("stage", "STAGE1")
		require.NoError(t, p.Store().Save(cfg))

		report, err := p.Check(context.Background(), true)
		require.NoError(t, err)
		assert.True(t, report.OK())
		assert.Empty(t, report.Findings)
	})

	t.Run("reports mismatches and stale ids", func(t *testing.T) {
		exec := newScriptedExecutor()
		exec.reply("deployments", deploymentsJSON)
		p := newTestProject(t, exec)
		writeJSON(t, filepath.Join(p.Dir(), ".clasp.json"), map[string]string{"scriptId": "OTHER"})

		cfg := state.DefaultConfig()
		cfg.ScriptID = "SCRIPT"
		cfg.Upsert("prod", "GONE")
		cfg.Upsert("qa", "")
		require.NoError(t, p.Store().Save(cfg))

		report, err := p.Check(context.Background(), true)
		require.NoError(t, err)
		assert.False(t, report.OK())

		var errs, warnings int
		for _, f := range report.Findings {
			if f.Severity == SeverityError {
				errs++
			} else {
				warnings++
			}
		}
		// scriptId mismatch, missing src, stale prod id
		assert.Equal(t, 3, errs)
		// missing dist, no head, unbound qa
		assert.Equal(t, 3, warnings)
	})
}
