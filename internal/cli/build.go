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

	"github.com/pigeonworks-llc/ascol/pkg/build"
	"github.com/spf13/cobra"
)

var buildQuiet bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the clasp root directory from the source tree",
	Long: `Build mirrors the source directory into the output directory.

  - .css files are wrapped in <style> tags and written as <name>.css.html
  - .js files under a client directory are wrapped in <script> tags and
    written as <name>.js.html
  - everything else is copied as is

The output directory is emptied first, except appsscript.json.`,
	Example:     `  ascol build`,
	Annotations: noLogin,
	RunE:        runBuild,
}

func init() {
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Only print the summary")
}

func runBuild(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🚀 Building and transforming files...")

	actions, err := p.Build()
	if err != nil {
		return err
	}

	printActions(out, actions, buildQuiet)
	return nil
}

func printActions(w io.Writer, actions []build.Action, quiet bool) {
	var transpiled int
	for _, a := range actions {
		if a.Kind == build.Transpiled {
			transpiled++
		}
		if quiet {
			continue
		}
		switch a.Kind {
		case build.Transpiled:
			fmt.Fprintf(w, "  [Transpiled] %s -> %s\n", a.Source, a.Target)
		default:
			fmt.Fprintf(w, "  [Copied]     %s\n", a.Source)
		}
	}
	fmt.Fprintf(w, "✅ Build completed: %d file(s), %d transpiled\n", len(actions), transpiled)
}
