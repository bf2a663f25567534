package model

import "time"

// Flashcard is a term/definition pair belonging to exactly one study set.
//
// A flashcard has no author column of its own. AuthorID and AuthorUsername
// are derived from the parent study set and denormalised into query results
// so ownership checks need no second lookup.
type Flashcard struct {
	ID             string    `json:"id"`
	Term           string    `json:"term"`
	Definition     string    `json:"definition"`
	ImageURL       string    `json:"imageUrl"`
	StudySetID     string    `json:"studySetId"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}
