// ABOUTME: Maps engine errors to gentle, user-facing messages
// ABOUTME: Raw error kinds stay in logs; people see guidance on what to do next
package app

import (
	"errors"
	"strconv"

	"github.com/harper/devotional/internal/models"
)

// FriendlyMessage turns an engine error into a message suitable for a person
func FriendlyMessage(err error) string {
	var ooe *models.OutOfOrderError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ooe):
		return "Let's take these one day at a time. Day " + strconv.Itoa(ooe.Expected) + " is next."
	case errors.Is(err, models.ErrPlanAlreadyCompleted):
		return "You've finished this plan. Well done! You can restart it whenever you like."
	case errors.Is(err, models.ErrAlreadyStarted):
		return "You've already started this plan. Restart it if you'd like to begin again."
	case errors.Is(err, models.ErrPlanExhausted):
		return "There are no more days in this plan."
	case errors.Is(err, models.ErrNoContentAvailable):
		return "There's no devotional content available right now."
	case errors.Is(err, models.ErrEmptyBody):
		return "Your journal entry needs a few words first."
	case errors.Is(err, models.ErrInvalidCategory):
		return "Please choose one of: comfort, peace, forgiveness, hope, gratitude, strength, love."
	case errors.Is(err, models.ErrInvalidLink):
		return "That devotional couldn't be found, so the entry wasn't linked."
	case errors.Is(err, models.ErrNotFound):
		return "We couldn't find that. It may have been removed or not started yet."
	default:
		return "Something went wrong. Please try again."
	}
}
