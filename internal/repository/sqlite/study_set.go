package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/flashcard/internal/apperror"
	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/repository"
)

var _ repository.StudySetRepository = (*DB)(nil)

// selectStudySet is shared by Get and List so both return the same shape:
// every study set row joined with its author's username.
const selectStudySet = `
	SELECT st.id, st.title, st.description, st.level, st.author_id, u.username, st.created_at
	FROM study_sets st
	JOIN users u ON st.author_id = u.id`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudySet(row rowScanner, s *model.StudySet) error {
	return row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.Level,
		&s.AuthorID,
		&s.AuthorUsername,
		&s.CreatedAt,
	)
}

// CreateStudySet inserts a new study set. ID and CreatedAt are generated here;
// AuthorID must already be set by the caller.
//
// Timestamps are stored in UTC so that the text form SQLite keeps sorts in
// the same order as the instants it represents.
func (db *DB) CreateStudySet(ctx context.Context, set *model.StudySet) error {
	set.ID = xid.New().String()
	set.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO study_sets (id, title, description, level, author_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		set.ID,
		set.Title,
		set.Description,
		set.Level,
		set.AuthorID,
		set.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", set.AuthorID)
		}
		return fmt.Errorf("sqlite: creating study set: %w", err)
	}

	return nil
}

// GetStudySet retrieves a single study set with its author's username.
// sql.ErrNoRows is translated to apperror.NotFound so the handler returns 404.
func (db *DB) GetStudySet(ctx context.Context, id string) (*model.StudySet, error) {
	var set model.StudySet

	row := db.conn.QueryRowContext(ctx, selectStudySet+` WHERE st.id = ?`, id)
	if err := scanStudySet(row, &set); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("study set", id)
		}
		return nil, fmt.Errorf("sqlite: getting study set %s: %w", id, err)
	}

	return &set, nil
}

// ListStudySets returns all study sets, newest first. There is no
// pagination. rowid breaks ties between sets created in the same instant.
func (db *DB) ListStudySets(ctx context.Context) ([]model.StudySet, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectStudySet+` ORDER BY st.created_at DESC, st.rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing study sets: %w", err)
	}
	defer rows.Close()

	sets := make([]model.StudySet, 0)
	for rows.Next() {
		var s model.StudySet
		if err := scanStudySet(rows, &s); err != nil {
			return nil, fmt.Errorf("sqlite: scanning study set row: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating study sets: %w", err)
	}

	return sets, nil
}

// UpdateStudySet overwrites every mutable field in one statement.
// author_id and created_at are never touched.
func (db *DB) UpdateStudySet(ctx context.Context, set *model.StudySet) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE study_sets
		 SET title = ?, description = ?, level = ?
		 WHERE id = ?`,
		set.Title,
		set.Description,
		set.Level,
		set.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating study set %s: %w", set.ID, err)
	}

	return expectOneRow(result, "study set", set.ID)
}

// DeleteStudySet removes a study set. Its flashcards go with it through the
// ON DELETE CASCADE foreign key (see migrations/00003_create_flashcards.sql).
func (db *DB) DeleteStudySet(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM study_sets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting study set %s: %w", id, err)
	}

	return expectOneRow(result, "study set", id)
}

// expectOneRow turns "0 rows affected" into NotFound.
func expectOneRow(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
