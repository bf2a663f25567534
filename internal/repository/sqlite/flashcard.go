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

var _ repository.FlashcardRepository = (*DB)(nil)

// selectFlashcard joins through the parent study set to the user so that
// every flashcard comes back with its effective author.
const selectFlashcard = `
	SELECT f.id, f.term, f.definition, f.image_url, f.study_set_id,
	       st.author_id, u.username, f.created_at
	FROM flashcards f
	JOIN study_sets st ON f.study_set_id = st.id
	JOIN users u ON st.author_id = u.id`

func scanFlashcard(row rowScanner, f *model.Flashcard) error {
	return row.Scan(
		&f.ID,
		&f.Term,
		&f.Definition,
		&f.ImageURL,
		&f.StudySetID,
		&f.AuthorID,
		&f.AuthorUsername,
		&f.CreatedAt,
	)
}

// CreateFlashcard inserts a flashcard into an existing study set.
//
// If the parent set was deleted between the service's lookup and this
// insert, the foreign key rejects the row and the caller gets NotFound for
// the study set.
func (db *DB) CreateFlashcard(ctx context.Context, card *model.Flashcard) error {
	card.ID = xid.New().String()
	card.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO flashcards (id, term, definition, image_url, study_set_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		card.ID,
		card.Term,
		card.Definition,
		card.ImageURL,
		card.StudySetID,
		card.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("study set", card.StudySetID)
		}
		return fmt.Errorf("sqlite: creating flashcard: %w", err)
	}

	return nil
}

// GetFlashcard retrieves one flashcard with its derived author.
func (db *DB) GetFlashcard(ctx context.Context, id string) (*model.Flashcard, error) {
	var card model.Flashcard

	row := db.conn.QueryRowContext(ctx, selectFlashcard+` WHERE f.id = ?`, id)
	if err := scanFlashcard(row, &card); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("flashcard", id)
		}
		return nil, fmt.Errorf("sqlite: getting flashcard %s: %w", id, err)
	}

	return &card, nil
}

// ListFlashcards returns the flashcards of one study set, newest first.
// An unknown studySetID yields an empty slice; resolving the parent is the
// service's job.
func (db *DB) ListFlashcards(ctx context.Context, studySetID string) ([]model.Flashcard, error) {
	rows, err := db.conn.QueryContext(ctx,
		selectFlashcard+` WHERE f.study_set_id = ? ORDER BY f.created_at DESC, f.rowid DESC`,
		studySetID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing flashcards of %s: %w", studySetID, err)
	}
	defer rows.Close()

	cards := make([]model.Flashcard, 0)
	for rows.Next() {
		var f model.Flashcard
		if err := scanFlashcard(rows, &f); err != nil {
			return nil, fmt.Errorf("sqlite: scanning flashcard row: %w", err)
		}
		cards = append(cards, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating flashcards: %w", err)
	}

	return cards, nil
}

// UpdateFlashcard overwrites term, definition and image URL in one statement.
// study_set_id is immutable.
func (db *DB) UpdateFlashcard(ctx context.Context, card *model.Flashcard) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE flashcards
		 SET term = ?, definition = ?, image_url = ?
		 WHERE id = ?`,
		card.Term,
		card.Definition,
		card.ImageURL,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating flashcard %s: %w", card.ID, err)
	}

	return expectOneRow(result, "flashcard", card.ID)
}

func (db *DB) DeleteFlashcard(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting flashcard %s: %w", id, err)
	}

	return expectOneRow(result, "flashcard", id)
}
