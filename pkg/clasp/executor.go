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

// Package clasp runs the clasp CLI and parses what it prints.
package clasp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
)

// ExecOptions controls a single external tool invocation.
type ExecOptions struct {
	// Capture buffers output instead of mirroring it to the terminal.
	Capture bool
	// Dir is the working directory of the child process. Empty means inherit.
	Dir string
}

// Executor runs an external command and returns its standard output.
type Executor interface {
	Execute(ctx context.Context, name string, args []string, opts ExecOptions) (string, error)
}

// ExecExecutor is the os/exec backed Executor.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor creates an executor that mirrors to the process streams.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Execute spawns exactly one child process. Arguments are passed as an argv
// array; nothing is interpreted by a shell.
func (e *ExecExecutor) Execute(ctx context.Context, name string, args []string, opts ExecOptions) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir

	var stdout, stderr bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = io.MultiWriter(&stdout, e.stdout())
		cmd.Stderr = io.MultiWriter(&stderr, e.stderr())
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, name, err)
		}
		return "", fmt.Errorf("failed to start %s: %w", name, err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &ToolError{
				Command:  name,
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return stdout.String(), fmt.Errorf("failed to run %s: %w", name, err)
	}

	return stdout.String(), nil
}

func (e *ExecExecutor) stdout() io.Writer {
	if e.Stdout == nil {
		return io.Discard
	}
	return e.Stdout
}

func (e *ExecExecutor) stderr() io.Writer {
	if e.Stderr == nil {
		return io.Discard
	}
	return e.Stderr
}
