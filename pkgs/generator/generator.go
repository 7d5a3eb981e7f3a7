// Package generator defines the contract of build-info generators: helpers
// that serialize build metadata into a file a build tool consumes.
package generator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Generator captures what every build-info generator provides.
type Generator interface {
	// Filename is the fixed name of the generated file.
	Filename() string

	// Generate writes the file content to w.
	Generate(w io.Writer) error
}

// WriteFile renders g and writes it to dir/g.Filename(), replacing any
// previous content. An empty dir means the current working directory.
// It returns the path written.
func WriteFile(g Generator, dir string) (string, error) {
	var buf bytes.Buffer
	if err := g.Generate(&buf); err != nil {
		return "", err
	}
	path := filepath.Join(dir, g.Filename())
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
