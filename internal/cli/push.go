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

	"github.com/pigeonworks-llc/ascol/pkg/project"
	"github.com/spf13/cobra"
)

var pushSkipBuild bool

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Build and push the output directory to Apps Script",
	Long: `Push runs the build and then "clasp push -f" from the project root, so
clasp uploads the output directory configured as rootDir in .clasp.json.`,
	Example: `  ascol push

  # Push the current output without rebuilding
  ascol push --skip-build`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().BoolVar(&pushSkipBuild, "skip-build", false, "Push the existing output directory without building")
}

func runPush(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if pushSkipBuild {
		fmt.Fprintln(out, "⏭️  Skipping build")
	} else {
		fmt.Fprintln(out, "🚀 Building and transforming files...")
	}

	result, err := p.Push(cmd.Context(), project.PushOptions{SkipBuild: pushSkipBuild})
	if err != nil {
		return err
	}
	if result.Actions != nil {
		printActions(out, result.Actions, true)
	}

	fmt.Fprintln(out, "✅ Pushed to Apps Script")
	return nil
}
