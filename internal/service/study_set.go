// Package service holds the business rules: input validation, the
// authentication requirement on mutations, and ownership checks.
//
// Services never see HTTP. The caller's identity arrives as an explicit
// *model.CurrentUser argument (nil for anonymous callers) and results are
// plain model values or apperror kinds.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/policy"
	"github.com/sakif/flashcard/internal/repository"
)

// studySetInput is validated before any write. Field order is the order in
// which missing fields are reported.
type studySetInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Level       string `json:"level" validate:"required"`
}

// StudySetService manages study sets.
//
// ownership decides whether Update and Delete are limited to the set's
// author. It comes from configuration (policy.study_set_ownership) so that
// the choice is made, and reviewed, in one visible place.
type StudySetService struct {
	repo      repository.StudySetRepository
	ownership policy.Ownership
	logger    *slog.Logger
}

func NewStudySetService(repo repository.StudySetRepository, ownership policy.Ownership, logger *slog.Logger) *StudySetService {
	return &StudySetService{
		repo:      repo,
		ownership: ownership,
		logger:    logger,
	}
}

// Get returns a study set with its author's username, or apperror.ErrNotFound.
// Reading is public.
func (s *StudySetService) Get(ctx context.Context, id string) (*model.StudySet, error) {
	return s.repo.GetStudySet(ctx, id)
}

// List returns every study set, newest first.
func (s *StudySetService) List(ctx context.Context) ([]model.StudySet, error) {
	sets, err := s.repo.ListStudySets(ctx)
	if err != nil {
		s.logger.Error("failed to list study sets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing study sets: %w", err)
	}
	return sets, nil
}

// Create validates and stores a new study set authored by user.
//
// Errors: Unauthorized without a user, ValidationError naming the first
// empty field.
func (s *StudySetService) Create(ctx context.Context, user *model.CurrentUser, title, description, level string) (*model.StudySet, error) {
	if err := policy.RequireUser(user); err != nil {
		return nil, err
	}

	input := studySetInput{Title: title, Description: description, Level: level}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	set := &model.StudySet{
		Title:          input.Title,
		Description:    input.Description,
		Level:          input.Level,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
	}
	if err := s.repo.CreateStudySet(ctx, set); err != nil {
		s.logger.Error("failed to create study set",
			slog.String("author", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating study set: %w", err)
	}

	s.logger.Info("study set created",
		slog.String("id", set.ID),
		slog.String("author", user.ID),
	)
	return set, nil
}

// Update overwrites title, description and level.
//
// The existing record is fetched first so a missing id is NotFound and the
// author check has something to compare against. Authorization is decided
// before validation: a stranger learns nothing about which fields are bad.
func (s *StudySetService) Update(ctx context.Context, user *model.CurrentUser, id, title, description, level string) (*model.StudySet, error) {
	set, err := s.authorized(ctx, user, id)
	if err != nil {
		return nil, err
	}

	input := studySetInput{Title: title, Description: description, Level: level}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	set.Title = input.Title
	set.Description = input.Description
	set.Level = input.Level

	if err := s.repo.UpdateStudySet(ctx, set); err != nil {
		s.logger.Error("failed to update study set",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating study set: %w", err)
	}

	s.logger.Info("study set updated", slog.String("id", id), slog.String("by", user.ID))
	return set, nil
}

// Delete removes a study set and, by cascade, all of its flashcards.
func (s *StudySetService) Delete(ctx context.Context, user *model.CurrentUser, id string) error {
	if _, err := s.authorized(ctx, user, id); err != nil {
		return err
	}

	if err := s.repo.DeleteStudySet(ctx, id); err != nil {
		return fmt.Errorf("deleting study set: %w", err)
	}

	s.logger.Info("study set deleted", slog.String("id", id), slog.String("by", user.ID))
	return nil
}

// authorized runs the checks shared by Update and Delete: a user is
// present, the set exists, and the configured ownership rule allows it.
func (s *StudySetService) authorized(ctx context.Context, user *model.CurrentUser, id string) (*model.StudySet, error) {
	if err := policy.RequireUser(user); err != nil {
		return nil, err
	}

	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(user, set.AuthorID, s.ownership); err != nil {
		s.logger.Warn("study set mutation denied",
			slog.String("id", id),
			slog.String("user", user.ID),
		)
		return nil, err
	}
	return set, nil
}
