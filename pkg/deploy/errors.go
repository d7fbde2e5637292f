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
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned for precondition violations. No remote call has been made.
	ErrInvalidRequest = errors.New("invalid deploy request")
	// ErrUnknownEnvironment is returned when a name is not registered or has no id.
	ErrUnknownEnvironment = errors.New("unknown environment")
	// ErrRemoteDeploymentNotFound is returned when a registered id no longer exists remotely.
	ErrRemoteDeploymentNotFound = errors.New("remote deployment not found")
	// ErrDeployOutputUnparseable is returned when clasp succeeded but its output
	// did not name the new deployment.
	ErrDeployOutputUnparseable = errors.New("failed to parse clasp deploy output")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// PostDeployError wraps a failure that happened after clasp already changed
// the remote side. Retrying would create a duplicate deployment.
type PostDeployError struct {
	// DeploymentID is set when the new deployment id is known.
	DeploymentID string
	// Environment is the name that should have been bound.
	Environment string
	Output      string
	Err         error
}

// Error implements the error interface.
func (e *PostDeployError) Error() string {
	return fmt.Sprintf("deployment was created but the registry was not updated: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PostDeployError) Unwrap() error {
	return e.Err
}

// IsPostDeploy reports whether err happened after a remote mutation.
func IsPostDeploy(err error) bool {
	var pde *PostDeployError
	return errors.As(err, &pde)
}
