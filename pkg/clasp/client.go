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
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// DefaultBinary is the clasp executable looked up on PATH.
const DefaultBinary = "clasp"

// Client exposes clasp as three kinds of calls: structured (JSON), captured
// (buffered text) and interactive (mirrored to the terminal).
type Client struct {
	binary string
	exec   Executor
	dir    string
	logger *slog.Logger
}

// NewClient creates a clasp client. An empty binary means DefaultBinary.
func NewClient(binary string, executor Executor, logger *slog.Logger) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if executor == nil {
		executor = NewExecExecutor()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		binary: binary,
		exec:   executor,
		logger: logger,
	}
}

// WithDir returns a copy of the client that runs clasp in dir.
func (c *Client) WithDir(dir string) *Client {
	clone := *c
	clone.dir = dir
	return &clone
}

// Binary returns the clasp executable name.
func (c *Client) Binary() string {
	return c.binary
}

func (c *Client) run(ctx context.Context, capture bool, args []string) (string, error) {
	c.logger.Debug("running clasp",
		"binary", c.binary,
		"args", args,
		"capture", capture,
		"dir", c.dir)

	return c.exec.Execute(ctx, c.binary, args, ExecOptions{Capture: capture, Dir: c.dir})
}

// RunStructured runs clasp with captured output and decodes it as JSON into v.
func (c *Client) RunStructured(ctx context.Context, v any, args ...string) error {
	out, err := c.run(ctx, true, args)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), v); err != nil {
		return fmt.Errorf("%w: clasp %s: %v", ErrRemoteParse, strings.Join(args, " "), err)
	}
	return nil
}

// RunCaptured runs clasp silently and returns its standard output.
func (c *Client) RunCaptured(ctx context.Context, args ...string) (string, error) {
	return c.run(ctx, true, args)
}

// RunInteractive runs clasp with live output and returns what it printed on stdout.
func (c *Client) RunInteractive(ctx context.Context, args ...string) (string, error) {
	return c.run(ctx, false, args)
}

// DeployArgs selects what `clasp deploy` binds.
type DeployArgs struct {
	// DeploymentID rebinds an existing deployment. Empty creates a new one.
	DeploymentID string
	// VersionNumber binds an existing version. Zero cuts a new version from head.
	VersionNumber int
	Description   string
}

// Argv returns the clasp argument list for the deploy call.
func (a DeployArgs) Argv() []string {
	args := []string{"deploy"}
	if a.DeploymentID != "" {
		args = append(args, "--deploymentId", a.DeploymentID)
	}
	if a.VersionNumber > 0 {
		args = append(args, "--versionNumber", strconv.Itoa(a.VersionNumber))
	} else if a.Description != "" {
		args = append(args, "--description", a.Description)
	}
	return args
}

// Deploy runs `clasp deploy` interactively and returns its output for parsing.
func (c *Client) Deploy(ctx context.Context, a DeployArgs) (string, error) {
	return c.RunInteractive(ctx, a.Argv()...)
}

// Create runs `clasp create` with dist as the clasp rootDir.
func (c *Client) Create(ctx context.Context, title, scriptType, rootDir string) error {
	args := []string{"create", "--title", title, "--rootDir", rootDir}
	if scriptType != "" {
		args = append(args, "--type", scriptType)
	}
	_, err := c.RunInteractive(ctx, args...)
	return err
}

// Push runs `clasp push -f`.
func (c *Client) Push(ctx context.Context) error {
	_, err := c.RunInteractive(ctx, "push", "-f")
	return err
}

// Pull runs `clasp pull`.
func (c *Client) Pull(ctx context.Context) error {
	_, err := c.RunInteractive(ctx, "pull")
	return err
}
