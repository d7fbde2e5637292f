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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound is returned when the clasp binary cannot be launched.
	ErrToolNotFound = errors.New("external tool not found")
	// ErrToolFailed matches any *ToolError.
	ErrToolFailed = errors.New("external tool failed")
	// ErrRemoteParse is returned when structured clasp output cannot be decoded.
	ErrRemoteParse = errors.New("failed to parse remote output")
	// ErrNotLoggedIn is returned when the clasp credentials file is missing.
	ErrNotLoggedIn = errors.New("clasp login credentials not found")
)

// ToolError describes a clasp invocation that exited with a non-zero status.
type ToolError struct {
	Command  string
	Args     []string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s %s exited with status %d", e.Command, strings.Join(e.Args, " "), e.ExitCode)
	}
	return fmt.Sprintf("%s %s exited with status %d: %s", e.Command, strings.Join(e.Args, " "), e.ExitCode, msg)
}

// Is reports ErrToolFailed so callers can match without a type assertion.
func (e *ToolError) Is(target error) bool {
	return target == ErrToolFailed
}
