package cli

import (
	"os"
	"strings"

	"github.com/ardnew/quill/pkg"
)

// defaultDirMode is the default permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// envarPrefix returns the prefix kong joins with a flag name to form its
// environment variable, e.g. QUILL for QUILL_LOG_LEVEL.
func envarPrefix() string {
	return strings.TrimSuffix(pkg.EnvPrefix(), "_")
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
