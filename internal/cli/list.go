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
	"strconv"
	"strings"

	"github.com/pigeonworks-llc/ascol/pkg/project"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"github.com/spf13/cobra"
)

var (
	listFormat string
	listRemote bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered environments",
	Long: `List shows the environments recorded in ascol.json.

With --remote the live deployments are fetched and matched against the
registry: each environment shows the version it serves, deployments nobody
registered are listed as untracked, and the version history is tagged with
the environments deployed at each version.`,
	Example: `  # Local registry only
  ascol list

  # Live state and version history
  ascol list --remote

  # Machine readable
  ascol list --remote --format json`,
	Annotations: noLogin,
	RunE:        runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json, yaml)")
	listCmd.Flags().BoolVarP(&listRemote, "remote", "r", false, "Fetch live deployments and versions")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateFormat(listFormat, "table", "json", "yaml"); err != nil {
		return err
	}
	if listRemote {
		if err := checkLogin(); err != nil {
			return err
		}
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	summary, err := p.Summarize(cmd.Context(), listRemote)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch listFormat {
	case "json":
		return encodeJSON(out, summary)
	case "yaml":
		return encodeYAML(out, summary)
	default:
		outputListTable(out, summary)
		return nil
	}
}

func outputListTable(w io.Writer, summary *project.Summary) {
	fmt.Fprintf(w, "Script ID: %s\n\n", summary.ScriptID)

	if !summary.Remote {
		if len(summary.Environments) == 0 {
			fmt.Fprintln(w, "No environments found")
			return
		}
		fmt.Fprintf(w, "%-15s %s\n", "NAME", "DEPLOYMENT ID")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, env := range summary.Environments {
			id := env.ID
			if id == "" {
				id = "-"
			}
			fmt.Fprintf(w, "%-15s %s\n", truncate(env.Name, 15), id)
		}
		fmt.Fprintf(w, "\nTotal: %d environment(s)\n", len(summary.Environments))
		return
	}

	fmt.Fprintf(w, "%-15s %-10s %-8s %-40s %s\n", "NAME", "STATUS", "VERSION", "DEPLOYMENT ID", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, st := range summary.States {
		name := st.Name
		if name == "" {
			name = project.UntrackedLabel
		}
		status := string(st.Status)
		if st.Status == state.StatusMissing {
			status += " ⚠️"
		}
		version := "HEAD"
		if st.VersionNumber != nil {
			version = strconv.Itoa(*st.VersionNumber)
		} else if st.Status != state.StatusHead && st.Status != state.StatusUntracked {
			version = "-"
		}
		id := st.DeploymentID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%-15s %-10s %-8s %-40s %s\n",
			truncate(name, 15), status, version, truncate(id, 40), truncate(st.Description, 30))
	}

	if len(summary.Versions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-8s %-40s %s\n", "VERSION", "DESCRIPTION", "ENVIRONMENTS")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for _, v := range summary.Versions {
			fmt.Fprintf(w, "%-8d %-40s %s\n", v.Number, truncate(v.Description, 40), strings.Join(v.Environments, ", "))
		}
	}

	for _, warning := range summary.Warnings {
		fmt.Fprintf(w, "\n⚠️  %s\n", warning)
	}
}
