package effectors

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// FileSaver writes resolved content below a fixed base directory. Path
// traversal out of the base is rejected.
type FileSaver struct {
	baseDir string
}

func NewFileSaver(baseDir string) *FileSaver {
	return &FileSaver{baseDir: baseDir}
}

func (f *FileSaver) SaveFile(_ context.Context, directory, filename, content string) (string, error) {
	dir := filepath.Join(f.baseDir, directory)

	cleaned, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	base, err := filepath.Abs(f.baseDir)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(cleaned, base) {
		return "", fmt.Errorf("directory %q escapes the save root", directory)
	}

	err = os.MkdirAll(cleaned, 0o755)
	if err != nil {
		return "", err
	}

	path := filepath.Join(cleaned, filepath.Base(filename))

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		return "", err
	}

	return "Saved file " + path, nil
}

var _ protocol.FileSaver = (*FileSaver)(nil)
