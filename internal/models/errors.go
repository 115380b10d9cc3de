// ABOUTME: Error taxonomy for the guidance and progress engine
// ABOUTME: Callers match with errors.Is; none of these are fatal
package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrNoContentAvailable   = errors.New("no content available")
	ErrOutOfOrderCompletion = errors.New("days must be completed in order")
	ErrPlanAlreadyCompleted = errors.New("plan already completed")
	ErrAlreadyStarted       = errors.New("plan already started")
	ErrPlanExhausted        = errors.New("plan has no more days")

	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyBody       = errors.New("entry body cannot be empty")
	ErrInvalidLink     = errors.New("linked content does not exist")
)

// OutOfOrderError describes an attempt to complete a day other than the current one
type OutOfOrderError struct {
	PlanID   string
	Expected int
	Got      int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("plan %s: cannot complete day %d, day %d is next", e.PlanID, e.Got, e.Expected)
}

// Is makes errors.Is(err, ErrOutOfOrderCompletion) succeed
func (e *OutOfOrderError) Is(target error) bool {
	return target == ErrOutOfOrderCompletion
}
