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

	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/spf13/cobra"
)

var setIDCmd = &cobra.Command{
	Use:   "set-id NAME DEPLOYMENT_ID",
	Short: "Bind an environment name to a deployment id",
	Long: `Set-id records NAME -> DEPLOYMENT_ID in ascol.json without contacting
Apps Script. An existing NAME is rebound in place; a new NAME is appended.

Use it to adopt deployments created in the script editor, or to recover after
a deploy whose id could not be recorded.`,
	Example: `  ascol set-id prod AKfycbx...`,
	Args:    exactArgs(2),
	RunE:    runSetID,
}

func runSetID(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	result, err := p.SetID(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Registered"
	if result.Upsert == state.Updated {
		verb = "Rebound"
	}
	fmt.Fprintf(out, "✅ %s %s -> %s\n", verb, result.Environment.Name, result.Environment.ID)
	fmt.Fprintln(out)
	printAccessURLs(out, result.URLs)

	return nil
}
