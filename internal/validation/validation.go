// Package validation checks user supplied settings before any work starts.
package validation

import (
	"fmt"
	"os"
	"strings"
)

// IsDirectoryOrAbsent checks that path, when it exists, is a directory.
// A missing path is valid: directories are created or treated as empty when
// they are used.
func IsDirectoryOrAbsent(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

// IsValidReportFormat checks if the given report format is supported.
func IsValidReportFormat(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported report format: %s. Supported formats are '%s'",
		format, strings.Join(supported, "', '"))
}
