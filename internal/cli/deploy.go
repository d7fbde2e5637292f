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
	"fmt"
	"io"
	"strings"

	"github.com/pigeonworks-llc/ascol/pkg/deploy"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/spf13/cobra"
)

var (
	deployNew         bool
	deployTarget      string
	deploySrc         string
	deployVersion     int
	deployName        string
	deployDescription string
	deployDryRun      bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create or update a named deployment",
	Long: `Deploy moves a named environment to a version.

Exactly one mode:
  --new            create a new deployment registered under --name
  --target NAME    rebind an existing environment's deployment

Exactly one source:
  --src head       cut a new version from the current code (needs --description)
  --src NAME       reuse the version the NAME environment is deployed at
  --version N      use version N

Nothing is written to ascol.json unless a new deployment was created and its
id could be read from clasp's output.`,
	Example: `  # Promote what stage runs to prod
  ascol deploy --target prod --src stage

  # Cut a version from head into a new stage environment
  ascol deploy --new --src head --name stage --description "v1.2"

  # Roll prod back to version 7
  ascol deploy --target prod --version 7

  # Show what would run
  ascol deploy --target prod --src stage --dry-run`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&deployNew, "new", false, "Create a new deployment")
	deployCmd.Flags().StringVar(&deployTarget, "target", "", "Environment whose deployment is updated")
	deployCmd.Flags().StringVar(&deploySrc, "src", "", "Version source: head or an environment name")
	deployCmd.Flags().IntVar(&deployVersion, "version", 0, "Explicit version number")
	deployCmd.Flags().StringVar(&deployName, "name", "", "Environment name for a new deployment")
	deployCmd.Flags().StringVarP(&deployDescription, "description", "d", "", "Version description (with --src head)")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "Resolve the request and print the clasp command without running it")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	req, warnings, err := deploy.ParseRequest(deploy.Flags{
		New:         deployNew,
		Target:      deployTarget,
		Src:         deploySrc,
		Version:     deployVersion,
		VersionSet:  cmd.Flags().Changed("version"),
		Name:        deployName,
		Description: deployDescription,
	})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "⚠️  %s\n", w)
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	reconciler := p.Reconciler()

	if deployDryRun {
		plan, err := reconciler.Plan(cmd.Context(), req)
		if err != nil {
			return err
		}
		printPlan(out, p.Client().Binary(), plan)
		return nil
	}

	fmt.Fprintf(out, "🚀 Deploying %s...\n", describeRequest(req))

	result, err := reconciler.Reconcile(cmd.Context(), req)
	if err != nil {
		return err
	}

	envName := req.Target
	if req.Mode == deploy.ModeNew {
		envName = req.Name
	}

	switch result.Upsert {
	case state.Created:
		fmt.Fprintf(out, "✅ Registered %s -> %s\n", envName, result.DeploymentID)
	case state.Updated:
		fmt.Fprintf(out, "✅ Rebound %s -> %s\n", envName, result.DeploymentID)
	default:
		fmt.Fprintf(out, "✅ Deployment %s (%s) now serves version %d\n", envName, result.DeploymentID, result.Version)
	}

	cfg, err := p.Store().Load()
	if err != nil {
		// The deploy itself succeeded.
		return nil
	}
	fmt.Fprintln(out)
	printAccessURLs(out, state.AccessURLs(cfg.ScriptID, state.Environment{Name: envName, ID: result.DeploymentID}))

	return nil
}

func describeRequest(req deploy.Request) string {
	if req.Mode == deploy.ModeNew {
		return fmt.Sprintf("new environment %s from %s", req.Name, req.Source)
	}
	return fmt.Sprintf("%s from %s", req.Target, req.Source)
}

func printPlan(w io.Writer, binary string, plan *deploy.Plan) {
	fmt.Fprintln(w, "📋 Deploy plan (dry run)")
	fmt.Fprintf(w, "  Mode:     %s\n", plan.Request.Mode)
	fmt.Fprintf(w, "  Source:   %s\n", plan.Request.Source)
	if plan.TargetID != "" {
		fmt.Fprintf(w, "  Target:   %s (%s)\n", plan.Request.Target, plan.TargetID)
	}
	if plan.Request.Mode == deploy.ModeNew {
		fmt.Fprintf(w, "  Register: %s\n", plan.Request.Name)
	}
	if plan.Version > 0 {
		fmt.Fprintf(w, "  Version:  %d\n", plan.Version)
	}
	fmt.Fprintf(w, "  Command:  %s %s\n", binary, strings.Join(plan.Args.Argv(), " "))
}
