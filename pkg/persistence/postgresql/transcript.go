package postgresql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/voxflow/voxflow/pkg/models"
	"github.com/voxflow/voxflow/pkg/persistence"
)

// TranscriptSpool stores captured transcripts in the transcripts table.
type TranscriptSpool struct {
	db *sql.DB
}

func (ts *TranscriptSpool) Transcripts(ctx context.Context) ([]*models.Transcript, error) {
	rows, err := ts.db.QueryContext(ctx,
		"SELECT id, title, text, source, created_at FROM transcripts ORDER BY created_at")
	if err != nil {
		return nil, persistence.NewStoreError("Transcripts", "transcript", "", err)
	}
	defer rows.Close()

	transcripts := make([]*models.Transcript, 0)

	for rows.Next() {
		var (
			transcript    models.Transcript
			title, source sql.NullString
		)

		err = rows.Scan(&transcript.ID, &title, &transcript.Text, &source, &transcript.CreatedAt)
		if err != nil {
			return nil, persistence.NewStoreError("Transcripts", "transcript", "", err)
		}

		transcript.Title = title.String
		transcript.Source = source.String
		transcripts = append(transcripts, &transcript)
	}

	err = rows.Err()
	if err != nil {
		return nil, persistence.NewStoreError("Transcripts", "transcript", "", err)
	}

	return transcripts, nil
}

func (ts *TranscriptSpool) TranscriptByID(ctx context.Context, id string) (*models.Transcript, error) {
	var (
		transcript    models.Transcript
		title, source sql.NullString
	)

	err := ts.db.QueryRowContext(ctx,
		"SELECT id, title, text, source, created_at FROM transcripts WHERE id = $1", id).
		Scan(&transcript.ID, &title, &transcript.Text, &source, &transcript.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewStoreError("TranscriptByID", "transcript", id, persistence.ErrTranscriptNotFound)
	}

	if err != nil {
		return nil, persistence.NewStoreError("TranscriptByID", "transcript", id, err)
	}

	transcript.Title = title.String
	transcript.Source = source.String

	return &transcript, nil
}

func (ts *TranscriptSpool) SaveTranscript(ctx context.Context, transcript *models.Transcript) error {
	_, err := ts.db.ExecContext(ctx, `
		INSERT INTO transcripts (id, title, text, source, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			source = EXCLUDED.source
	`, transcript.ID, transcript.Title, transcript.Text, transcript.Source, transcript.CreatedAt)
	if err != nil {
		return persistence.NewStoreError("SaveTranscript", "transcript", transcript.ID, err)
	}

	return nil
}

func (ts *TranscriptSpool) DeleteTranscript(ctx context.Context, id string) error {
	result, err := ts.db.ExecContext(ctx, "DELETE FROM transcripts WHERE id = $1", id)
	if err != nil {
		return persistence.NewStoreError("DeleteTranscript", "transcript", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewStoreError("DeleteTranscript", "transcript", id, err)
	}

	if affected == 0 {
		return persistence.NewStoreError("DeleteTranscript", "transcript", id, persistence.ErrTranscriptNotFound)
	}

	return nil
}
