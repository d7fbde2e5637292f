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

	"github.com/spf13/cobra"
)

var pullConfigCmd = &cobra.Command{
	Use:   "pull-config",
	Short: "Download appsscript.json into the source and output directories",
	Long: `Pull-config fetches the project from Apps Script into a temporary workspace
and copies only appsscript.json into the source and output directories. Other
local files are never touched.

Run it after changing project settings in the script editor, for example
after the first web app deployment.`,
	Example: `  ascol pull-config`,
	RunE:    runPullConfig,
}

func runPullConfig(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Pulling appsscript.json...")

	result, err := p.PullConfig(cmd.Context())
	if err != nil {
		return fmt.Errorf("pull-config failed: %w", err)
	}

	for _, target := range result.Targets {
		fmt.Fprintf(out, "  updated %s\n", target)
	}
	fmt.Fprintln(out, "✅ appsscript.json synchronized")

	return nil
}
