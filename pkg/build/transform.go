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

// Package build mirrors a source tree into the clasp root directory, wrapping
// browser-side scripts and stylesheets into HTML files Apps Script can serve.
package build

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFile survives the clean step so the project manifest is never lost.
const ManifestFile = "appsscript.json"

// ErrSourceMissing is returned when the source directory does not exist.
var ErrSourceMissing = errors.New("source directory not found")

// ActionKind tells how a file reached the output tree.
type ActionKind string

const (
	// Copied files are written byte-for-byte.
	Copied ActionKind = "copied"
	// Transpiled files are wrapped in a template and get an .html suffix.
	Transpiled ActionKind = "transpiled"
)

// Action records one file written by Transform. Paths are slash-separated and
// relative to SrcDir and DistDir.
type Action struct {
	Kind   ActionKind
	Source string
	Target string
}

// Rule wraps files with Extension in Template. ClientOnly rules apply only to
// files under one of the client directories.
type Rule struct {
	Extension  string
	Template   string
	ClientOnly bool
}

// Apply wraps content in the rule's template.
func (r Rule) Apply(content []byte) []byte {
	return []byte(fmt.Sprintf(r.Template, content))
}

// DefaultRules wraps client scripts in <script> and every stylesheet in <style>.
var DefaultRules = []Rule{
	{Extension: ".js", Template: "<script>\n\n%s\n\n</script>", ClientOnly: true},
	{Extension: ".css", Template: "<style>\n\n%s\n\n</style>"},
}

// Options configures Transform.
type Options struct {
	// ProjectDir anchors relative SrcDir, DistDir and client directories.
	ProjectDir string
	SrcDir     string
	DistDir    string
	// ClientDirs are matched against paths relative to ProjectDir and to SrcDir.
	ClientDirs []string
	// Rules defaults to DefaultRules when nil.
	Rules  []Rule
	Logger *slog.Logger
}

func (o Options) abs(p string) string {
	if filepath.IsAbs(p) || o.ProjectDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(o.ProjectDir, p)
}

// Transform clears DistDir (keeping a top-level manifest) and mirrors SrcDir
// into it. Actions are returned in walk order.
func Transform(opts Options) ([]Action, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules
	}

	srcDir := opts.abs(opts.SrcDir)
	distDir := opts.abs(opts.DistDir)
	if srcDir == distDir {
		return nil, fmt.Errorf("source and output directories are the same: %s", srcDir)
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, opts.SrcDir)
		}
		return nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceMissing, opts.SrcDir)
	}

	if _, err := Clean(distDir); err != nil {
		return nil, err
	}

	matcher := newClientMatcher(opts.ClientDirs)
	projectDir := opts.abs(opts.ProjectDir)
	actions := []Action{}

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relSrc, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(distDir, relSrc)

		if d.IsDir() {
			// Output nested inside the source tree must not be mirrored into itself.
			if path == distDir {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		}

		relProject, err := filepath.Rel(projectDir, path)
		if err != nil {
			relProject = path
		}
		client := matcher.matches(filepath.ToSlash(relProject), filepath.ToSlash(relSrc))

		rule, ok := selectRule(rules, filepath.Ext(path), client)
		if !ok {
			if err := copyFile(path, target); err != nil {
				return err
			}
			actions = append(actions, Action{Kind: Copied, Source: filepath.ToSlash(relSrc), Target: filepath.ToSlash(relSrc)})
			logger.Debug("copied", "source", relSrc)
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", relSrc, err)
		}
		if err := os.WriteFile(target+".html", rule.Apply(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s.html: %w", relSrc, err)
		}
		actions = append(actions, Action{Kind: Transpiled, Source: filepath.ToSlash(relSrc), Target: filepath.ToSlash(relSrc) + ".html"})
		logger.Debug("transpiled", "source", relSrc, "client", client)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}

	return actions, nil
}

func selectRule(rules []Rule, ext string, client bool) (Rule, bool) {
	for _, r := range rules {
		if !strings.EqualFold(r.Extension, ext) {
			continue
		}
		if r.ClientOnly && !client {
			continue
		}
		return r, true
	}
	return Rule{}, false
}

// Clean empties dir except a top-level manifest file, creating dir if needed.
// It returns the names of the removed entries.
func Clean(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, os.MkdirAll(dir, 0o755)
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		if entry.Name() == ManifestFile && entry.Type().IsRegular() {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to clean output directory: %w", err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
