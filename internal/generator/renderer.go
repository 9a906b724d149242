package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteSource writes source to outputDir/<target file name> and returns the path.
func WriteSource(source string, target Target, outputDir string) (string, error) {
	name := target.FileName()
	if name == "" {
		return "", &UnsupportedTargetError{Target: string(target)}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
