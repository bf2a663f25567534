// Package repository declares the storage interfaces the services depend on.
//
// Services only see these interfaces; the sqlite sub-package implements them
// and the service tests swap in in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/flashcard/internal/model"
)

type UserRepository interface {
	// CreateUser fails with apperror.ErrConflict when the username is taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type StudySetRepository interface {
	// CreateStudySet fills in ID and CreatedAt.
	CreateStudySet(ctx context.Context, set *model.StudySet) error
	// GetStudySet returns the set joined with its author's username.
	GetStudySet(ctx context.Context, id string) (*model.StudySet, error)
	// ListStudySets returns every set, newest first.
	ListStudySets(ctx context.Context) ([]model.StudySet, error)
	// UpdateStudySet overwrites title, description and level.
	UpdateStudySet(ctx context.Context, set *model.StudySet) error
	// DeleteStudySet removes the set and, through ON DELETE CASCADE, its flashcards.
	DeleteStudySet(ctx context.Context, id string) error
}

type FlashcardRepository interface {
	CreateFlashcard(ctx context.Context, card *model.Flashcard) error
	// GetFlashcard returns the card joined with its parent set's author.
	GetFlashcard(ctx context.Context, id string) (*model.Flashcard, error)
	// ListFlashcards returns the cards of one study set, newest first.
	ListFlashcards(ctx context.Context, studySetID string) ([]model.Flashcard, error)
	// UpdateFlashcard overwrites term, definition and image URL.
	UpdateFlashcard(ctx context.Context, card *model.Flashcard) error
	DeleteFlashcard(ctx context.Context, id string) error
}
