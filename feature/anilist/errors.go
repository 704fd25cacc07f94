package anilist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRejected marks a mutation the API refused; the entry should be retried later.
	ErrRejected = errors.New("rejected by AniList")
	// ErrInvalidToken indicates a missing, invalid or expired access token.
	ErrInvalidToken = errors.New("invalid or expired AniList token")
	// ErrUserNotFound indicates that no user matches a name.
	ErrUserNotFound = errors.New("AniList user not found")
)

// APIError is a non-successful GraphQL or HTTP response.
type APIError struct {
	Status   int
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("anilist: HTTP %d", e.Status)
	}
	return fmt.Sprintf("anilist: HTTP %d: %s", e.Status, strings.Join(e.Messages, "; "))
}
