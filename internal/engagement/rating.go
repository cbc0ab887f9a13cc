package engagement

import (
	"math"

	"github.com/BloggingApp/post-service/internal/model"
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(value int) bool {
	return value >= MinRating && value <= MaxRating
}

// Rate overwrites the user's existing rating in place or appends a new one.
// The caller validates value first.
func Rate(ratings []model.Rating, userID uuid.UUID, value int) []model.Rating {
	for i := range ratings {
		if ratings[i].UserID == userID {
			ratings[i].Value = value
			return ratings
		}
	}
	return append(ratings, model.Rating{UserID: userID, Value: value})
}

// Average is the mean rating rounded to two decimals, 0 when nobody rated.
func Average(ratings []model.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}

	total := 0
	for _, r := range ratings {
		total += r.Value
	}

	mean := float64(total) / float64(len(ratings))
	return math.Round(mean*100) / 100
}

func UserRating(ratings []model.Rating, userID uuid.UUID) (int, bool) {
	for _, r := range ratings {
		if r.UserID == userID {
			return r.Value, true
		}
	}
	return 0, false
}
