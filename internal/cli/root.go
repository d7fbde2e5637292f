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

// Package cli provides the command-line interface for ascol.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pigeonworks-llc/ascol/pkg/clasp"
	"github.com/spf13/cobra"
)

// annotationNoLogin marks commands that run without clasp credentials.
const annotationNoLogin = "ascol/no-login"

var noLogin = map[string]string{annotationNoLogin: "true"}

var (
	// Version is set during build time
	Version = "dev"

	rootDir   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "ascol",
		Short: "Environment-aware deployments for Google Apps Script",
		Long: `ascol wraps clasp with named deployment environments and a build step.

Features:
  - Named environments (head, stage, prod, ...) bound to deployment ids in ascol.json
  - Promote a version between environments without looking up version numbers
  - Build step that wraps client-side JS and CSS into HTML files Apps Script can serve
  - Remote overview of deployments and version history

Example:
  # Cut a new version from head and register it as stage
  ascol deploy --new --src head --name stage --description "v1.2"

  # Promote whatever stage runs to prod
  ascol deploy --target prod --src stage

  # Show environments with their live versions
  ascol list --remote`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", "", "Project directory (current directory if not provided)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Diagnostic log format (text, json)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(setIDCmd)
	rootCmd.AddCommand(pullConfigCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: noLogin,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ascol version %s\n", Version)
	},
}

// setup runs before every command: environment, logging, then the login check.
func setup(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	// Variables already set in the environment win over .env.
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	logger, err := newLogger(logLevel, logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if cmd.Annotations[annotationNoLogin] == "true" {
		return nil
	}
	return checkLogin()
}

// checkLogin lets commands that only sometimes reach the remote side require
// credentials on demand.
func checkLogin() error {
	return clasp.EnsureLogin()
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, usageErrorf("invalid --log-level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, usageErrorf("invalid --log-format %q (text, json)", format)
	}
}

func projectDir() (string, error) {
	dir := rootDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	return abs, nil
}
