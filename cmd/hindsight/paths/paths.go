// Package paths resolves on-disk locations for backends whose configured
// target is empty. Precedence per location: explicit override, HINDSIGHT_*
// environment variable, path under the resolved .hindsight/ directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papercomputeco/hindsight/pkg/dotdir"
)

const (
	evidenceDBFile = "evidence.db"
	journalDBFile  = "journal.db"
	cipherKeyFile  = "cipher.key"
	workspaceDir   = "workspace"
	inboxDir       = "inbox"
)

// EvidenceDB resolves the sqlitevec database path. The file need not exist;
// the driver creates it on first open.
func EvidenceDB(override, configDir string) (string, error) {
	return resolveFile(override, "HINDSIGHT_EVIDENCE_DB", evidenceDBFile, configDir)
}

// JournalDB resolves the sqlite journal database path.
func JournalDB(override, configDir string) (string, error) {
	return resolveFile(override, "HINDSIGHT_JOURNAL_DB", journalDBFile, configDir)
}

// CipherKey resolves the symmetric key path for the operator channel.
func CipherKey(override, configDir string) (string, error) {
	return resolveFile(override, "HINDSIGHT_CIPHER_KEY", cipherKeyFile, configDir)
}

// Workspace resolves the sandboxed workspace directory, creating it if
// missing.
func Workspace(override, configDir string) (string, error) {
	return resolveDir(override, "HINDSIGHT_WORKSPACE_DIR", workspaceDir, configDir)
}

// Inbox resolves the encrypted operator channel directory, creating it if
// missing.
func Inbox(override, configDir string) (string, error) {
	return resolveDir(override, "HINDSIGHT_INBOX_DIR", inboxDir, configDir)
}

func resolveFile(override, envVar, name, configDir string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv(envVar)); envPath != "" {
		return envPath, nil
	}

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(target, name), nil
}

func resolveDir(override, envVar, name, configDir string) (string, error) {
	path, err := resolveFile(override, envVar, name, configDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", name, err)
	}

	return path, nil
}
