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
	"time"

	"github.com/spf13/cobra"
)

var (
	cleanWorkspaces bool
	cleanOlderThan  time.Duration
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Empty the output directory",
	Long: `Clean removes everything in the output directory except appsscript.json.

With --workspaces it also removes temporary pull workspaces left behind by
interrupted runs. Only directories carrying the ascol workspace marker are
removed.

All cleanup operations are safe and idempotent.`,
	Example: `  ascol clean

  # Also remove pull workspaces older than an hour
  ascol clean --workspaces --older-than 1h`,
	Annotations: noLogin,
	RunE:        runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanWorkspaces, "workspaces", false, "Also remove stale pull workspaces")
	cleanCmd.Flags().DurationVar(&cleanOlderThan, "older-than", time.Hour, "Minimum workspace age for --workspaces (e.g., 2h, 30m)")
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleanOlderThan < 0 {
		return usageErrorf("--older-than must not be negative")
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	removed, err := p.Clean()
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}
	fmt.Fprintf(out, "✅ Removed %d entr(ies) from the output directory\n", len(removed))

	if !cleanWorkspaces {
		return nil
	}

	swept, err := p.Workspaces().Sweep(cleanOlderThan)
	for _, dir := range swept {
		fmt.Fprintf(out, "  removed workspace %s\n", dir)
	}
	if err != nil {
		fmt.Fprintf(out, "⚠️  Some workspaces could not be removed: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "✅ Cleaned up %d workspace(s)\n", len(swept))

	return nil
}
