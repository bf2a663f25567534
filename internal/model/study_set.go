package model

import "time"

// StudySet is a named collection of flashcards on a topic, owned by one user.
//
// AuthorID is fixed at creation. AuthorUsername is not a column of
// study_sets; it is filled from the users join on every read.
type StudySet struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Level          string    `json:"level"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	CreatedAt      time.Time `json:"createdAt"`
}
