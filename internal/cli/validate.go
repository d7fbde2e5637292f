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

	"github.com/pigeonworks-llc/ascol/pkg/project"
	"github.com/spf13/cobra"
)

var errValidationFailed = errors.New("validation failed")

var (
	validateRemote bool
	validateOutput string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project configuration",
	Long: `Validate checks that the project is consistent before deploying.

This command verifies:
  1. ascol.json exists and matches its schema
  2. The scriptId agrees with .clasp.json
  3. The source directory exists
  4. Every environment has a deployment id

With --remote it also checks that every registered deployment still exists.`,
	Example: `  ascol validate

  # Include the live deployment list
  ascol validate --remote --format json`,
	Annotations: noLogin,
	RunE:        runValidate,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateRemote, "remote", "r", false, "Check registered ids against the live deployments")
	validateCmd.Flags().StringVar(&validateOutput, "format", "table", "Output format (table, json, yaml)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := validateFormat(validateOutput, "table", "json", "yaml"); err != nil {
		return err
	}
	if validateRemote {
		if err := checkLogin(); err != nil {
			return err
		}
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	report, err := p.Check(cmd.Context(), validateRemote)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch validateOutput {
	case "json":
		err = encodeJSON(out, report)
	case "yaml":
		err = encodeYAML(out, report)
	default:
		outputReport(out, report)
	}
	if err != nil {
		return err
	}

	if !report.OK() {
		return errValidationFailed
	}
	return nil
}

func outputReport(w io.Writer, report *project.CheckReport) {
	for _, f := range report.Findings {
		icon := "⚠️ "
		if f.Severity == project.SeverityError {
			icon = "❌"
		}
		fmt.Fprintf(w, "%s %s\n", icon, f.Message)
	}

	if report.OK() {
		fmt.Fprintln(w, "✅ Project validation successful!")
		fmt.Fprintf(w, "  Config File: %s\n", report.ConfigPath)
	}
}
