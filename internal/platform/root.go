package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/metavault/pkg/core"
)

// ConfigFileName is the optional per-repository configuration file.
const ConfigFileName = ".metavault.yaml"

// FindRoot looks upwards from startDir for a repository root, marked by a
// context registry or a configuration file, and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, core.RegistryFile) || hasFile(dir, ConfigFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found above %s: %w", core.RegistryFile, abs, core.ErrNotFound)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
