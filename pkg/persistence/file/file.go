// Package file provides JSON-file persistence: one file per workflow, run
// and spooled transcript under a common root directory.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/voxflow/voxflow/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system.
type Persistence struct {
	root        string
	workflows   *WorkflowRepository
	runs        *RunRepository
	transcripts *TranscriptSpool
}

// NewPersistence creates file persistence rooted at root. Accepts a plain
// path or a file:// URL.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:        cleanRoot,
		workflows:   NewWorkflowRepository(cleanRoot),
		runs:        NewRunRepository(cleanRoot),
		transcripts: NewTranscriptSpool(cleanRoot),
	}
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflows
}

func (fp *Persistence) RunRepository() persistence.RunRepository {
	return fp.runs
}

func (fp *Persistence) TranscriptSpool() persistence.TranscriptSpool {
	return fp.transcripts
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	_, err := os.Stat(fp.root)

	return err
}

// Close performs any necessary cleanup. Nothing to clean up for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

var _ persistence.Persistence = (*Persistence)(nil)
