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

var (
	initSrcDir  string
	initDistDir string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ascol.json for an existing clasp project",
	Long: `Initialize writes ascol.json for a project that already has a .clasp.json,
for example one obtained with clasp clone. The head deployment is registered
as the "head" environment and the source directories are created.`,
	Example: `  # Use the default src/ and dist/ layout
  ascol init

  # Custom layout
  ascol init --src-dir app --dist-dir build`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initSrcDir, "src-dir", "", "Source directory (default src)")
	initCmd.Flags().StringVar(&initDistDir, "dist-dir", "", "Build output directory and clasp rootDir (default dist)")
}

func runInit(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "⚙️  Initializing ascol configuration...")

	result, err := p.Init(cmd.Context(), project.InitOptions{SrcDir: initSrcDir, DistDir: initDistDir})
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	fmt.Fprintf(out, "✅ Generated %s\n", p.Store().Path())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Script ID:  %s\n", result.ScriptID)
	fmt.Fprintf(out, "  Head ID:    %s\n", orMissing(result.HeadID))
	fmt.Fprintf(out, "  Source:     %s\n", result.Config.Build.SrcDir)
	fmt.Fprintf(out, "  Output:     %s\n", result.Config.Build.DistDir)

	return nil
}
