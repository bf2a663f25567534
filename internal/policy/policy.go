// Package policy is the authorization gate consulted before every mutation.
//
// Two separate questions are answered here:
//
//   - RequireUser: is anybody logged in at all? (no → Unauthorized)
//   - Authorize:   is the logged-in user the author of this resource?
//     (no → Forbidden)
//
// Whether the second question is asked at all is never a hidden default.
// Every call site passes an Ownership value, so skipping the author check
// is visible in the code that does it.
package policy

import (
	"fmt"
	"strings"

	"github.com/sakif/flashcard/internal/apperror"
	"github.com/sakif/flashcard/internal/model"
)

// Ownership selects whether Authorize compares the caller with the author.
type Ownership int

const (
	// EnforceOwnership allows only the resource's author.
	EnforceOwnership Ownership = iota
	// SkipOwnership allows any caller (public reads, parent lookups).
	SkipOwnership
)

func (o Ownership) String() string {
	switch o {
	case EnforceOwnership:
		return "enforce"
	case SkipOwnership:
		return "skip"
	default:
		return fmt.Sprintf("Ownership(%d)", int(o))
	}
}

// ParseOwnership converts a config value ("enforce" or "skip") to Ownership.
func ParseOwnership(s string) (Ownership, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enforce":
		return EnforceOwnership, nil
	case "skip":
		return SkipOwnership, nil
	default:
		return EnforceOwnership, fmt.Errorf("policy: unknown ownership mode %q", s)
	}
}

// RequireUser fails with Unauthorized when no user is logged in.
func RequireUser(user *model.CurrentUser) error {
	if user == nil || user.ID == "" {
		return apperror.Unauthorized("you must be logged in")
	}
	return nil
}

// Authorize decides whether user may act on a resource written by authorID.
//
// With SkipOwnership the answer is always "allow", even for anonymous
// callers. With EnforceOwnership an anonymous caller is Unauthorized and a
// different user is Forbidden.
func Authorize(user *model.CurrentUser, authorID string, mode Ownership) error {
	if mode == SkipOwnership {
		return nil
	}
	if err := RequireUser(user); err != nil {
		return err
	}
	if user.ID != authorID {
		return apperror.Forbidden("you are not the author of this resource")
	}
	return nil
}
