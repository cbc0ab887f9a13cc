// Package engagement holds the pure rules behind likes, ratings and the
// ownership checks that gate post and comment mutations. Nothing in here
// touches storage.
package engagement

import (
	"slices"

	"github.com/google/uuid"
)

// Toggle removes userID from likers if present, otherwise appends it.
// It returns the resulting set and whether userID is now a member.
func Toggle(likers []uuid.UUID, userID uuid.UUID) ([]uuid.UUID, bool) {
	if i := slices.Index(likers, userID); i >= 0 {
		return slices.Delete(likers, i, i+1), false
	}
	return append(likers, userID), true
}

func Contains(likers []uuid.UUID, userID uuid.UUID) bool {
	return slices.Contains(likers, userID)
}
