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
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
	opts ExecOptions
}

// fakeExecutor records calls and replies with canned output keyed by the first argument.
type fakeExecutor struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args []string, opts ExecOptions) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args, opts: opts})
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	return f.outputs[key], f.errs[key]
}

func TestClient_ListDeployments(t *testing.T) {
	t.Run("parses flat deployment records", func(t *testing.T) {
		fake := &fakeExecutor{outputs: map[string]string{
			"deployments": `[
				{"deploymentId": "HEAD1"},
				{"deploymentId": "X", "versionNumber": 7, "description": "stage build"}
			]`,
		}}
		client := NewClient("", fake, nil)

		deployments, err := client.ListDeployments(context.Background())
		require.NoError(t, err)
		require.Len(t, deployments, 2)

		assert.True(t, deployments[0].IsHead())
		assert.Equal(t, "X", deployments[1].DeploymentID)
		require.NotNil(t, deployments[1].VersionNumber)
		assert.Equal(t, 7, *deployments[1].VersionNumber)
		assert.Equal(t, "stage build", deployments[1].Description)

		require.Len(t, fake.calls, 1)
		assert.Equal(t, "clasp", fake.calls[0].name)
		assert.Equal(t, []string{"deployments", "--json"}, fake.calls[0].args)
		assert.True(t, fake.calls[0].opts.Capture)
	})

	t.Run("parses nested deploymentConfig records", func(t *testing.T) {
		fake := &fakeExecutor{outputs: map[string]string{
			"deployments": `[{"deploymentId": "Y", "deploymentConfig": {"versionNumber": 3, "description": "prod"}}]`,
		}}
		client := NewClient("", fake, nil)

		deployments, err := client.ListDeployments(context.Background())
		require.NoError(t, err)
		require.Len(t, deployments, 1)
		require.NotNil(t, deployments[0].VersionNumber)
		assert.Equal(t, 3, *deployments[0].VersionNumber)
		assert.Equal(t, "prod", deployments[0].Description)
	})

	t.Run("returns empty list for null output", func(t *testing.T) {
		fake := &fakeExecutor{outputs: map[string]string{"deployments": "null\n"}}
		deployments, err := NewClient("", fake, nil).ListDeployments(context.Background())
		require.NoError(t, err)
		assert.Empty(t, deployments)
	})

	t.Run("non-JSON output is a parse failure", func(t *testing.T) {
		fake := &fakeExecutor{outputs: map[string]string{"deployments": "Found 2 deployments.\n- X @7"}}
		_, err := NewClient("", fake, nil).ListDeployments(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrRemoteParse))
	})

	t.Run("propagates tool failures", func(t *testing.T) {
		fake := &fakeExecutor{errs: map[string]error{
			"deployments": &ToolError{Command: "clasp", ExitCode: 1, Stderr: "boom"},
		}}
		_, err := NewClient("", fake, nil).ListDeployments(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrToolFailed))
		assert.False(t, errors.Is(err, ErrRemoteParse))
	})
}

func TestClient_ListVersions(t *testing.T) {
	fake := &fakeExecutor{outputs: map[string]string{
		"versions": "Found 3 versions.\n- 1 - first\ngarbage\n2 second\n",
	}}
	client := NewClient("clasp-dev", fake, nil)

	versions, err := client.ListVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Version{
		{Number: 1, Description: "first"},
		{Number: 2, Description: "second"},
	}, versions)
	assert.Equal(t, "clasp-dev", fake.calls[0].name)
	assert.True(t, fake.calls[0].opts.Capture)
}

func TestDeployArgs_Argv(t *testing.T) {
	tests := []struct {
		name string
		args DeployArgs
		want []string
	}{
		{
			name: "new deployment from head",
			args: DeployArgs{Description: "release notes"},
			want: []string{"deploy", "--description", "release notes"},
		},
		{
			name: "new deployment bound to version",
			args: DeployArgs{VersionNumber: 7},
			want: []string{"deploy", "--versionNumber", "7"},
		},
		{
			name: "rebind existing deployment",
			args: DeployArgs{DeploymentID: "X", VersionNumber: 9},
			want: []string{"deploy", "--deploymentId", "X", "--versionNumber", "9"},
		},
		{
			name: "description is not sent with a fixed version",
			args: DeployArgs{VersionNumber: 2, Description: "ignored"},
			want: []string{"deploy", "--versionNumber", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.args.Argv())
		})
	}
}

func TestClient_Deploy(t *testing.T) {
	t.Run("description with quotes stays a single argument", func(t *testing.T) {
		fake := &fakeExecutor{outputs: map[string]string{"deploy": "Deployed Y @8\n"}}
		client := NewClient("", fake, nil)

		desc := `fix "quoted" && rm -rf /`
		out, err := client.Deploy(context.Background(), DeployArgs{Description: desc})
		require.NoError(t, err)
		assert.Contains(t, out, "Deployed Y @8")

		require.Len(t, fake.calls, 1)
		assert.Equal(t, desc, fake.calls[0].args[2])
		assert.False(t, fake.calls[0].opts.Capture)
	})
}

func TestClient_WithDir(t *testing.T) {
	fake := &fakeExecutor{}
	client := NewClient("", fake, nil)

	require.NoError(t, client.WithDir("/tmp/ws").Pull(context.Background()))
	require.NoError(t, client.Push(context.Background()))

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "/tmp/ws", fake.calls[0].opts.Dir)
	assert.Equal(t, []string{"pull"}, fake.calls[0].args)
	assert.Empty(t, fake.calls[1].opts.Dir)
	assert.Equal(t, []string{"push", "-f"}, fake.calls[1].args)
}

func TestClient_Create(t *testing.T) {
	fake := &fakeExecutor{}
	client := NewClient("", fake, nil)

	require.NoError(t, client.Create(context.Background(), "My App", "webapp", "./dist"))
	assert.Equal(t,
		"create --title My App --rootDir ./dist --type webapp",
		strings.Join(fake.calls[0].args, " "))
}
