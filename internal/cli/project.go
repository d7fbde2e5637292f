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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/pigeonworks-llc/ascol/pkg/project"
	"github.com/pigeonworks-llc/ascol/pkg/state"
	"gopkg.in/yaml.v3"
)

// Environment variables read by every command.
const (
	envClaspBinary = "ASCOL_CLASP"
	envConfigFile  = "ASCOL_CONFIG"
)

func openProject() (*project.Project, error) {
	dir, err := projectDir()
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	store := state.NewManager(dir, os.Getenv(envConfigFile))
	client := clasp.NewClient(os.Getenv(envClaspBinary), clasp.NewExecExecutor(), logger)

	return project.New(store, client, project.WithLogger(logger)), nil
}

func printAccessURLs(w io.Writer, urls []state.AccessURL) {
	fmt.Fprintln(w, "Access URLs:")
	width := 0
	for _, u := range urls {
		if len(u.Label) > width {
			width = len(u.Label)
		}
	}
	for _, u := range urls {
		fmt.Fprintf(w, "  %-*s  %s\n", width+1, u.Label+":", u.URL)
	}
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return usageErrorf("unknown format: %s", format)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
