package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/policy"
	"github.com/sakif/flashcard/internal/repository"
)

// StudySetReader resolves a flashcard's parent set. *StudySetService
// satisfies it.
type StudySetReader interface {
	Get(ctx context.Context, id string) (*model.StudySet, error)
}

type flashcardInput struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
	ImageURL   string `json:"imageUrl"`
}

// FlashcardService manages flashcards. A flashcard's effective author is the
// author of its study set.
//
// Update and Delete always enforce ownership. createOwnership controls
// whether adding a card to somebody else's set is allowed
// (policy.flashcard_ownership).
type FlashcardService struct {
	cards           repository.FlashcardRepository
	sets            StudySetReader
	createOwnership policy.Ownership
	logger          *slog.Logger
}

func NewFlashcardService(
	cards repository.FlashcardRepository,
	sets StudySetReader,
	createOwnership policy.Ownership,
	logger *slog.Logger,
) *FlashcardService {
	return &FlashcardService{
		cards:           cards,
		sets:            sets,
		createOwnership: createOwnership,
		logger:          logger,
	}
}

// Get fetches one flashcard. With policy.EnforceOwnership the caller must be
// the card's effective author: anonymous callers get Unauthorized, other
// users Forbidden. NotFound is reported before either.
func (s *FlashcardService) Get(ctx context.Context, user *model.CurrentUser, id string, ownership policy.Ownership) (*model.Flashcard, error) {
	card, err := s.cards.GetFlashcard(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(user, card.AuthorID, ownership); err != nil {
		return nil, err
	}
	return card, nil
}

// List resolves the parent set (NotFound propagates) and returns it together
// with its flashcards, newest first.
func (s *FlashcardService) List(ctx context.Context, studySetID string) (*model.StudySet, []model.Flashcard, error) {
	set, err := s.sets.Get(ctx, studySetID)
	if err != nil {
		return nil, nil, err
	}

	cards, err := s.cards.ListFlashcards(ctx, set.ID)
	if err != nil {
		s.logger.Error("failed to list flashcards",
			slog.String("studySetID", set.ID),
			slog.String("error", err.Error()),
		)
		return nil, nil, fmt.Errorf("listing flashcards: %w", err)
	}
	return set, cards, nil
}

// Create adds a flashcard to an existing study set. imageURL may be empty.
func (s *FlashcardService) Create(ctx context.Context, user *model.CurrentUser, studySetID, term, definition, imageURL string) (*model.Flashcard, error) {
	if err := policy.RequireUser(user); err != nil {
		return nil, err
	}

	set, err := s.sets.Get(ctx, studySetID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(user, set.AuthorID, s.createOwnership); err != nil {
		return nil, err
	}

	input := flashcardInput{Term: term, Definition: definition, ImageURL: imageURL}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	card := &model.Flashcard{
		Term:           input.Term,
		Definition:     input.Definition,
		ImageURL:       input.ImageURL,
		StudySetID:     set.ID,
		AuthorID:       set.AuthorID,
		AuthorUsername: set.AuthorUsername,
	}
	if err := s.cards.CreateFlashcard(ctx, card); err != nil {
		s.logger.Error("failed to create flashcard",
			slog.String("studySetID", set.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating flashcard: %w", err)
	}

	s.logger.Info("flashcard created",
		slog.String("id", card.ID),
		slog.String("studySetID", set.ID),
	)
	return card, nil
}

// Update overwrites term, definition and image URL. Only the effective
// author may do this.
func (s *FlashcardService) Update(ctx context.Context, user *model.CurrentUser, id, term, definition, imageURL string) (*model.Flashcard, error) {
	if err := policy.RequireUser(user); err != nil {
		return nil, err
	}

	card, err := s.Get(ctx, user, id, policy.EnforceOwnership)
	if err != nil {
		return nil, err
	}

	input := flashcardInput{Term: term, Definition: definition, ImageURL: imageURL}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	card.Term = input.Term
	card.Definition = input.Definition
	card.ImageURL = input.ImageURL

	if err := s.cards.UpdateFlashcard(ctx, card); err != nil {
		s.logger.Error("failed to update flashcard",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating flashcard: %w", err)
	}

	s.logger.Info("flashcard updated", slog.String("id", id))
	return card, nil
}

// Delete removes a flashcard and returns it, so the caller knows which study
// set to send the user back to.
func (s *FlashcardService) Delete(ctx context.Context, user *model.CurrentUser, id string) (*model.Flashcard, error) {
	if err := policy.RequireUser(user); err != nil {
		return nil, err
	}

	card, err := s.Get(ctx, user, id, policy.EnforceOwnership)
	if err != nil {
		return nil, err
	}

	if err := s.cards.DeleteFlashcard(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting flashcard: %w", err)
	}

	s.logger.Info("flashcard deleted",
		slog.String("id", id),
		slog.String("studySetID", card.StudySetID),
	)
	return card, nil
}
