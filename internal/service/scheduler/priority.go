package scheduler

import (
	"time"

	"github.com/tkovalenko/sentencely-backend/internal/domain"
)

// Score ranks an initial-learning card by urgency. Pure value, no side effects.
//
//	reviewsRemaining = max(0, reviewsRequiredForGraduation - initialReviewCount)
//	minutesSinceLast = now - lastInitialReview, in minutes (0 if never reviewed)
//	score = reviewsRemaining*coeffReviewCount + minutesSinceLast*coeffMinutes
//
// Higher score means more urgent. Only meaningful for initial-learning cards;
// graduated cards are ordered by their due timestamps instead.
func Score(card domain.Card, prefs domain.SchedulingPrefs, now time.Time) float64 {
	remaining := max(0, prefs.ReviewsRequiredForGraduation-card.InitialReviewCount)

	minutesSinceLast := 0.0
	if card.LastInitialReview != nil {
		minutesSinceLast = now.Sub(*card.LastInitialReview).Minutes()
	}

	return float64(remaining)*prefs.PriorityCoeffReviewCount + minutesSinceLast*prefs.PriorityCoeffMinutes
}
