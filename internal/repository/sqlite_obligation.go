package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLiteObligationRepo implements ObligationRepo using a SQLite database.
type SQLiteObligationRepo struct {
	db db.DBTX
}

// NewSQLiteObligationRepo creates a new SQLiteObligationRepo.
func NewSQLiteObligationRepo(conn db.DBTX) *SQLiteObligationRepo {
	return &SQLiteObligationRepo{db: conn}
}

const obligationColumns = `id, title, due_date, weight, description, subject_id, color, created_at, updated_at`

func (r *SQLiteObligationRepo) Create(ctx context.Context, o *domain.Obligation) error {
	query := `INSERT INTO obligations (` + obligationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.Title,
		o.DueDate,
		nullableFloatToValue(o.Weight),
		o.Description,
		nullableString(o.SubjectID),
		o.Color,
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting obligation: %w", err)
	}
	return nil
}

func (r *SQLiteObligationRepo) GetByID(ctx context.Context, id string) (*domain.Obligation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+obligationColumns+` FROM obligations WHERE id = ?`, id)
	o, err := scanObligation(row)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns every obligation ordered by due date then title.
func (r *SQLiteObligationRepo) List(ctx context.Context) ([]domain.Obligation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+obligationColumns+` FROM obligations ORDER BY due_date, title`)
	if err != nil {
		return nil, fmt.Errorf("listing obligations: %w", err)
	}
	defer rows.Close()

	var out []domain.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating obligations: %w", err)
	}
	return out, nil
}

func (r *SQLiteObligationRepo) Update(ctx context.Context, o *domain.Obligation) error {
	query := `UPDATE obligations SET title = ?, due_date = ?, weight = ?, description = ?, subject_id = ?, color = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.Title,
		o.DueDate,
		nullableFloatToValue(o.Weight),
		o.Description,
		nullableString(o.SubjectID),
		o.Color,
		formatTime(o.UpdatedAt),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating obligation: %w", err)
	}
	return requireAffected(res, "obligation")
}

func (r *SQLiteObligationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM obligations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting obligation: %w", err)
	}
	return requireAffected(res, "obligation")
}

func scanObligation(row rowScanner) (domain.Obligation, error) {
	var o domain.Obligation
	var weight sql.NullFloat64
	var subjectID sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&o.ID, &o.Title, &o.DueDate, &weight, &o.Description, &subjectID, &o.Color, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, fmt.Errorf("obligation: %w", ErrNotFound)
		}
		return o, fmt.Errorf("scanning obligation: %w", err)
	}
	o.Weight = floatPtr(weight)
	o.SubjectID = subjectID.String
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	return o, nil
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
