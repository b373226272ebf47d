package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/google/uuid"
)

// SQLiteStudyBlockRepo implements StudyBlockRepo using a SQLite database.
// ReplaceFrom issues several statements; run it inside a UnitOfWork.
type SQLiteStudyBlockRepo struct {
	db db.DBTX
}

// NewSQLiteStudyBlockRepo creates a new SQLiteStudyBlockRepo.
func NewSQLiteStudyBlockRepo(conn db.DBTX) *SQLiteStudyBlockRepo {
	return &SQLiteStudyBlockRepo{db: conn}
}

const studyBlockColumns = `id, assignment_id, obligation_id, date, start_time, end_time, title, description, subject_id, color, generated, created_at`

func (r *SQLiteStudyBlockRepo) ReplaceFrom(ctx context.Context, from string, blocks []domain.StudyBlock) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM study_blocks WHERE date >= ?`, from); err != nil {
		return fmt.Errorf("clearing study blocks: %w", err)
	}

	query := `INSERT INTO study_blocks (` + studyBlockColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := nowUTC()
	for i := range blocks {
		b := &blocks[i]
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		_, err := r.db.ExecContext(ctx, query,
			b.ID,
			b.AssignmentID,
			b.ObligationID,
			b.Date,
			b.StartTime,
			b.EndTime,
			b.Title,
			b.Description,
			b.SubjectID,
			b.Color,
			boolToInt(b.Generated),
			formatTime(b.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting study block %d: %w", b.AssignmentID, err)
		}
	}
	return nil
}

func (r *SQLiteStudyBlockRepo) ListBetween(ctx context.Context, from, to string) ([]domain.StudyBlock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+studyBlockColumns+` FROM study_blocks
		WHERE date >= ? AND date < ? ORDER BY date, start_time, assignment_id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing study blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.StudyBlock
	for rows.Next() {
		var b domain.StudyBlock
		var generated int
		var createdAt string
		if err := rows.Scan(&b.ID, &b.AssignmentID, &b.ObligationID, &b.Date, &b.StartTime, &b.EndTime,
			&b.Title, &b.Description, &b.SubjectID, &b.Color, &generated, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning study block: %w", err)
		}
		b.Generated = intToBool(generated)
		b.CreatedAt = parseTime(createdAt)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study blocks: %w", err)
	}
	return out, nil
}
