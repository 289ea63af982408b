package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/envcloak/internal/errors"
	"github.com/PolarWolf314/envcloak/internal/secrets"
)

// AddToGitignore appends the base name of keyFile to the .gitignore at
// path, creating it when missing. It returns false when an equivalent entry
// is already present.
func AddToGitignore(path, keyFile string) (bool, error) {
	entry := filepath.Base(keyFile)

	// #nosec G304 -- path is a .gitignore next to a key the user asked for.
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: reading %s: %v", kerrors.ErrIOFailure, path, err)
	}
	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	content := string(existing)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == entry || line == "/"+entry {
			return false, nil
		}
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := secrets.WriteFileAtomic(path, []byte(content), perm); err != nil {
		return false, err
	}
	return true, nil
}
