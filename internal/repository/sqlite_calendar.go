package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLiteCalendarRepo implements CalendarRepo using a SQLite database.
type SQLiteCalendarRepo struct {
	db db.DBTX
}

// NewSQLiteCalendarRepo creates a new SQLiteCalendarRepo.
func NewSQLiteCalendarRepo(conn db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: conn}
}

const calendarColumns = `id, subject_id, title, kind, date, start_time, end_time, weight, description, source, external_key, created_at, updated_at`

func (r *SQLiteCalendarRepo) Create(ctx context.Context, e *domain.CalendarEntry) error {
	query := `INSERT INTO calendar_entries (` + calendarColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		nullableString(e.SubjectID),
		e.Title,
		string(e.Kind),
		e.Date,
		e.StartTime,
		e.EndTime,
		nullableFloatToValue(e.Weight),
		e.Description,
		string(e.Source),
		nullableString(e.ExternalKey),
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting calendar entry: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) GetByID(ctx context.Context, id string) (*domain.CalendarEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+calendarColumns+` FROM calendar_entries WHERE id = ?`, id)
	e, err := scanCalendarEntry(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteCalendarRepo) ListBetween(ctx context.Context, from, to string) ([]domain.CalendarEntry, error) {
	return r.list(ctx, `SELECT `+calendarColumns+` FROM calendar_entries
		WHERE date >= ? AND date < ? ORDER BY date, start_time, title`, from, to)
}

func (r *SQLiteCalendarRepo) ListIncomplete(ctx context.Context, subjectID string) ([]domain.CalendarEntry, error) {
	return r.list(ctx, `SELECT `+calendarColumns+` FROM calendar_entries
		WHERE subject_id = ? AND (weight IS NULL OR TRIM(description) = '')
		ORDER BY date, start_time, title`, subjectID)
}

func (r *SQLiteCalendarRepo) UpsertExternal(ctx context.Context, e *domain.CalendarEntry) (bool, error) {
	if strings.TrimSpace(e.ExternalKey) == "" {
		return false, errors.New("upserting calendar entry: external key is empty")
	}

	var existingID string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM calendar_entries WHERE external_key = ?`, e.ExternalKey).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := r.Create(ctx, e); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("looking up external key: %w", err)
	}

	query := `UPDATE calendar_entries SET
		subject_id = COALESCE(?, subject_id),
		title = ?, kind = ?, date = ?, start_time = ?, end_time = ?,
		description = CASE WHEN TRIM(description) = '' THEN ? ELSE description END,
		updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		nullableString(e.SubjectID),
		e.Title,
		string(e.Kind),
		e.Date,
		e.StartTime,
		e.EndTime,
		e.Description,
		formatTime(e.UpdatedAt),
		existingID,
	)
	if err != nil {
		return false, fmt.Errorf("refreshing calendar entry: %w", err)
	}
	e.ID = existingID
	return false, nil
}

func (r *SQLiteCalendarRepo) UpdateMetadata(ctx context.Context, id string, weight *float64, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE calendar_entries SET weight = ?, description = ?, updated_at = ? WHERE id = ?`,
		nullableFloatToValue(weight), description, formatTime(nowUTC()), id)
	if err != nil {
		return fmt.Errorf("updating calendar entry metadata: %w", err)
	}
	return requireAffected(res, "calendar entry")
}

func (r *SQLiteCalendarRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting calendar entry: %w", err)
	}
	return requireAffected(res, "calendar entry")
}

func (r *SQLiteCalendarRepo) list(ctx context.Context, query string, args ...any) ([]domain.CalendarEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing calendar entries: %w", err)
	}
	defer rows.Close()

	var out []domain.CalendarEntry
	for rows.Next() {
		e, err := scanCalendarEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating calendar entries: %w", err)
	}
	return out, nil
}

func scanCalendarEntry(row rowScanner) (domain.CalendarEntry, error) {
	var e domain.CalendarEntry
	var subjectID, externalKey sql.NullString
	var weight sql.NullFloat64
	var kind, source, createdAt, updatedAt string
	err := row.Scan(&e.ID, &subjectID, &e.Title, &kind, &e.Date, &e.StartTime, &e.EndTime,
		&weight, &e.Description, &source, &externalKey, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, fmt.Errorf("calendar entry: %w", ErrNotFound)
		}
		return e, fmt.Errorf("scanning calendar entry: %w", err)
	}
	e.SubjectID = subjectID.String
	e.Kind = domain.EntryKind(kind)
	e.Weight = floatPtr(weight)
	e.Source = domain.EntrySource(source)
	e.ExternalKey = externalKey.String
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}
