package mysql

import (
	"context"
	"database/sql"

	"workshop_finder/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Journal stores review submissions that reached the finder server.
type Journal struct{ db *sql.DB }

func New(db *sql.DB) *Journal { return &Journal{db: db} }

func (j *Journal) Record(ctx context.Context, e domain.JournalEntry) error {
	_, err := j.db.ExecContext(ctx, insertSubmissionSQL,
		e.ID,
		string(e.WorkshopID),
		e.Rating,
		e.Review,
		e.Success,
		valStr(e.Error),
		e.SubmittedAt.UTC(),
	)
	return err
}

func (j *Journal) List(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx, listSubmissionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JournalEntry
	for rows.Next() {
		var (
			e          domain.JournalEntry
			workshopID string
			errMsg     sql.NullString
		)
		if err := rows.Scan(&e.ID, &workshopID, &e.Rating, &e.Review, &e.Success, &errMsg, &e.SubmittedAt); err != nil {
			return nil, err
		}
		e.WorkshopID = domain.WorkshopID(workshopID)
		if errMsg.Valid {
			e.Error = errMsg.String
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
