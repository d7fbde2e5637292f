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

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pigeonworks-llc/ascol/pkg/build"
	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/deploy"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUserError = 2
)

var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageErrorf("%v", err)
		}
		return nil
	}
}

var userErrors = []error{
	errUsage,
	deploy.ErrInvalidRequest,
	deploy.ErrUnknownEnvironment,
	state.ErrConfigMissing,
	state.ErrInvalidConfig,
	clasp.ErrNotLoggedIn,
	build.ErrSourceMissing,
}

// ExitCode maps an error to the process exit status. Mistakes the user can
// fix without touching the remote side exit with ExitUserError.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	// Anything after a remote mutation is never a plain user error.
	if deploy.IsPostDeploy(err) {
		return ExitFailure
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return ExitUserError
		}
	}
	return ExitFailure
}

// PrintError writes err and, where one exists, a recovery hint.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ %v\n", err)
	if hint := errorHint(err); hint != "" {
		fmt.Fprintf(w, "\n%s\n", hint)
	}
}

func errorHint(err error) string {
	var pde *deploy.PostDeployError
	if errors.As(err, &pde) {
		id := pde.DeploymentID
		if id == "" {
			id = "<deployment-id>"
		}
		return fmt.Sprintf(`The deployment was already created remotely. Do not re-run deploy,
it would create a duplicate. Find the id with "ascol list --remote" and bind it:
  ascol set-id %s %s`, pde.Environment, id)
	}

	var toolErr *clasp.ToolError
	switch {
	case errors.Is(err, clasp.ErrToolNotFound):
		return "Install clasp with \"npm install -g @google/clasp\" or point ASCOL_CLASP at the binary."
	case errors.As(err, &toolErr) && toolErr.Stderr == "":
		return "clasp printed nothing on stderr; re-run with --log-level debug to see the exact invocation."
	}
	return ""
}
