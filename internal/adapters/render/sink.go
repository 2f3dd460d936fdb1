package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// artifactFilePermission matches the service's other generated files.
const artifactFilePermission = 0o600

// Sink receives the finished report artifact. The directory sink is
// the service's stand-in for the browser download the UI offers.
type Sink interface {
	Save(ctx context.Context, filename string, artifact []byte) (string, error)
}

// DirSink writes artifacts into a directory, creating it on demand.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Save writes the artifact and returns its full path.
func (s *DirSink) Save(ctx context.Context, filename string, artifact []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(path, artifact, artifactFilePermission); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}
