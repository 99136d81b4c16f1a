// Package dotdir manages the .hindsight/ and ~/.hindsight directories.
//
// Configuration and the cipher key live here. The directory is resolved
// once per command and shared by everything that needs a stable on-disk
// location.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// dirName is the name of the hindsight directory.
const dirName = ".hindsight"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .hindsight/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.hindsight/ dir
//  3. Home ~/.hindsight/ dir
//  4. If none found, attempt to create ~/.hindsight/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hindsight directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	if local, ok := m.localDir(); ok {
		return local, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// localDir reports the ./.hindsight path when one exists under the
// current working directory.
func (m *Manager) localDir() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}

	local := filepath.Join(cwd, dirName)
	info, err := os.Stat(local)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return local, true
}
