package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/sakif/flashcard/internal/apperror"
	"github.com/sakif/flashcard/internal/model"
	"github.com/sakif/flashcard/internal/repository"
)

// fakeStore is an in-memory implementation of all three repositories.
//
// It behaves like the SQLite schema where the services can observe it:
// flashcards derive their author from the parent set, lists are newest
// first, and deleting a set cascades to its flashcards.
type fakeStore struct {
	users  map[string]*model.User
	sets   map[string]*model.StudySet
	cards  map[string]*model.Flashcard
	seq    int
	clock  time.Time
	writes int // successful create/update/delete calls

	// set to a non-nil error to simulate a database failure
	listErr error
}

var (
	_ repository.UserRepository      = (*fakeStore)(nil)
	_ repository.StudySetRepository  = (*fakeStore)(nil)
	_ repository.FlashcardRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[string]*model.User),
		sets:  make(map[string]*model.StudySet),
		cards: make(map[string]*model.Flashcard),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// next returns a fresh id and a strictly increasing timestamp.
func (f *fakeStore) next(prefix string) (string, time.Time) {
	f.seq++
	f.clock = f.clock.Add(time.Second)
	return fmt.Sprintf("%s-%d", prefix, f.seq), f.clock
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperror.Conflict("user", user.Username)
		}
	}
	user.ID, user.CreatedAt = f.next("user")
	stored := *user
	f.users[user.ID] = &stored
	f.writes++
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (f *fakeStore) CreateStudySet(_ context.Context, set *model.StudySet) error {
	set.ID, set.CreatedAt = f.next("set")
	stored := *set
	f.sets[set.ID] = &stored
	f.writes++
	return nil
}

func (f *fakeStore) GetStudySet(_ context.Context, id string) (*model.StudySet, error) {
	s, ok := f.sets[id]
	if !ok {
		return nil, apperror.NotFound("study set", id)
	}
	result := *s
	return &result, nil
}

func (f *fakeStore) ListStudySets(_ context.Context) ([]model.StudySet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]model.StudySet, 0, len(f.sets))
	for _, s := range f.sets {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeStore) UpdateStudySet(_ context.Context, set *model.StudySet) error {
	stored, ok := f.sets[set.ID]
	if !ok {
		return apperror.NotFound("study set", set.ID)
	}
	stored.Title, stored.Description, stored.Level = set.Title, set.Description, set.Level
	f.writes++
	return nil
}

func (f *fakeStore) DeleteStudySet(_ context.Context, id string) error {
	if _, ok := f.sets[id]; !ok {
		return apperror.NotFound("study set", id)
	}
	delete(f.sets, id)
	for cid, c := range f.cards {
		if c.StudySetID == id {
			delete(f.cards, cid)
		}
	}
	f.writes++
	return nil
}

func (f *fakeStore) CreateFlashcard(_ context.Context, card *model.Flashcard) error {
	if _, ok := f.sets[card.StudySetID]; !ok {
		return apperror.NotFound("study set", card.StudySetID)
	}
	card.ID, card.CreatedAt = f.next("card")
	stored := *card
	f.cards[card.ID] = &stored
	f.writes++
	return nil
}

// withAuthor fills the derived author fields the way the SQL join does.
func (f *fakeStore) withAuthor(c model.Flashcard) model.Flashcard {
	if s, ok := f.sets[c.StudySetID]; ok {
		c.AuthorID = s.AuthorID
		c.AuthorUsername = s.AuthorUsername
	}
	return c
}

func (f *fakeStore) GetFlashcard(_ context.Context, id string) (*model.Flashcard, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, apperror.NotFound("flashcard", id)
	}
	result := f.withAuthor(*c)
	return &result, nil
}

func (f *fakeStore) ListFlashcards(_ context.Context, studySetID string) ([]model.Flashcard, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]model.Flashcard, 0)
	for _, c := range f.cards {
		if c.StudySetID == studySetID {
			result = append(result, f.withAuthor(*c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeStore) UpdateFlashcard(_ context.Context, card *model.Flashcard) error {
	stored, ok := f.cards[card.ID]
	if !ok {
		return apperror.NotFound("flashcard", card.ID)
	}
	stored.Term, stored.Definition, stored.ImageURL = card.Term, card.Definition, card.ImageURL
	f.writes++
	return nil
}

func (f *fakeStore) DeleteFlashcard(_ context.Context, id string) error {
	if _, ok := f.cards[id]; !ok {
		return apperror.NotFound("flashcard", id)
	}
	delete(f.cards, id)
	f.writes++
	return nil
}

// addUser seeds a user directly and returns the identity the services see.
func (f *fakeStore) addUser(username string) *model.CurrentUser {
	u := &model.User{Username: username, PasswordHash: "unused"}
	if err := f.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return &model.CurrentUser{ID: u.ID, Username: u.Username}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
