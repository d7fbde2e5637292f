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

package clasp

import (
	"fmt"
	"os"
	"path/filepath"
)

// CredentialsFile is the file clasp writes on `clasp login`.
const CredentialsFile = ".clasprc.json"

// CredentialsPath returns the clasp credentials path in the user's home directory.
func CredentialsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, CredentialsFile), nil
}

// EnsureLogin checks that clasp credentials exist. It does not validate them.
func EnsureLogin() error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w (checked %s); run \"clasp login\" first", ErrNotLoggedIn, path)
		}
		return fmt.Errorf("failed to check credentials file: %w", err)
	}
	return nil
}
