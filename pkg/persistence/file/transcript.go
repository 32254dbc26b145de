package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// TranscriptSpool stores captured transcripts under root/transcripts until
// the worker picks them up.
type TranscriptSpool struct {
	dir string
}

func NewTranscriptSpool(root string) *TranscriptSpool {
	return &TranscriptSpool{dir: filepath.Join(root, "transcripts")}
}

func (ts *TranscriptSpool) Transcripts(ctx context.Context) ([]*models.Transcript, error) {
	names, err := fs.Glob(os.DirFS(ts.dir), "*.json")
	if err != nil || len(names) == 0 {
		return []*models.Transcript{}, nil
	}

	transcripts := make([]*models.Transcript, 0, len(names))

	for _, name := range names {
		transcript, err := ts.TranscriptByID(ctx, name[:len(name)-len(".json")])
		if err != nil {
			return nil, err
		}

		transcripts = append(transcripts, transcript)
	}

	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].CreatedAt.Before(transcripts[j].CreatedAt)
	})

	return transcripts, nil
}

func (ts *TranscriptSpool) TranscriptByID(_ context.Context, id string) (*models.Transcript, error) {
	data, err := os.ReadFile(ts.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewStoreError("TranscriptByID", "transcript", id, persistence.ErrTranscriptNotFound)
		}

		return nil, persistence.NewStoreError("TranscriptByID", "transcript", id, err)
	}

	var transcript models.Transcript

	err = json.Unmarshal(data, &transcript)
	if err != nil {
		return nil, persistence.NewStoreError("TranscriptByID", "transcript", id, err)
	}

	return &transcript, nil
}

func (ts *TranscriptSpool) SaveTranscript(_ context.Context, transcript *models.Transcript) error {
	err := os.MkdirAll(ts.dir, dirPerm)
	if err != nil {
		return persistence.NewStoreError("SaveTranscript", "transcript", transcript.ID, err)
	}

	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return persistence.NewStoreError("SaveTranscript", "transcript", transcript.ID, err)
	}

	err = os.WriteFile(ts.path(transcript.ID), data, 0o644)
	if err != nil {
		return persistence.NewStoreError("SaveTranscript", "transcript", transcript.ID, err)
	}

	return nil
}

func (ts *TranscriptSpool) DeleteTranscript(_ context.Context, id string) error {
	err := os.Remove(ts.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persistence.NewStoreError("DeleteTranscript", "transcript", id, persistence.ErrTranscriptNotFound)
		}

		return persistence.NewStoreError("DeleteTranscript", "transcript", id, err)
	}

	return nil
}

func (ts *TranscriptSpool) path(id string) string {
	return filepath.Join(ts.dir, id+".json")
}
