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
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/spf13/cobra"
)

var (
	createTitle string
	createType  string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new Apps Script project",
	Long: `Create a new Apps Script project and initialize ascol.json.

This command:
  1. Runs clasp create with the output directory (dist) as rootDir
  2. Writes ascol.json with the new script id and default build paths
  3. Registers the head deployment as the "head" environment
  4. Copies the generated appsscript.json into the source directory`,
	Example: `  # Create a standalone script
  ascol create --title "Expense Tracker"

  # Create a web app
  ascol create --title "Expense Tracker" --type webapp`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createTitle, "title", "t", "", "Project title (required)")
	createCmd.Flags().StringVar(&createType, "type", "", "Project type passed to clasp (standalone, webapp, sheets, docs, ...)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🆕 Creating project %q...\n", createTitle)

	result, err := p.Create(cmd.Context(), project.CreateOptions{Title: createTitle, Type: createType})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Fprintln(out, "✅ Project created successfully!")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Script ID:   %s\n", result.ScriptID)
	fmt.Fprintf(out, "  Head ID:     %s\n", orMissing(result.HeadID))
	fmt.Fprintf(out, "  Config File: %s\n", p.Store().Path())
	if result.ManifestCopied {
		fmt.Fprintf(out, "  Manifest:    copied to %s/\n", result.Config.Build.SrcDir)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Open the script editor and deploy it as a web app if needed:")
	fmt.Fprintf(out, "     %s\n", state.EditorURL(result.ScriptID))
	fmt.Fprintln(out, "  2. Sync the latest appsscript.json:")
	fmt.Fprintln(out, "     ascol pull-config")
	fmt.Fprintln(out, "  3. Register or create environments:")
	fmt.Fprintln(out, "     ascol set-id <name> <deployment-id>")
	fmt.Fprintln(out, "     ascol deploy --new --src head --name stage --description \"first release\"")

	return nil
}

func orMissing(id string) string {
	if id == "" {
		return "(none)"
	}
	return id
}
