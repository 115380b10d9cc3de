// ABOUTME: Reading plan types: the ordered days of a plan and a user's progress through it
// ABOUTME: Completed days always form the prefix 1..CurrentDay-1
package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// PlanState is the lifecycle state of a user's progress
type PlanState string

const (
	PlanNotStarted PlanState = "not_started"
	PlanInProgress PlanState = "in_progress"
	PlanCompleted  PlanState = "completed"
)

// PlanDay is one day's assignment
type PlanDay struct {
	Index      int      `json:"index" yaml:"index"`
	Title      string   `json:"title" yaml:"title"`
	ContentIDs []string `json:"content_ids" yaml:"content_ids"`
}

// ReadingPlan is an ordered multi-day devotional sequence
type ReadingPlan struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Days        []PlanDay `json:"days" yaml:"days"`
}

// Len returns the number of days in the plan
func (p ReadingPlan) Len() int {
	return len(p.Days)
}

// Day returns the day at a 1-based index
func (p ReadingPlan) Day(index int) (PlanDay, bool) {
	if index < 1 || index > len(p.Days) {
		return PlanDay{}, false
	}
	return p.Days[index-1], true
}

// Validate checks that days are numbered 1..N and each references content
func (p ReadingPlan) Validate() error {
	if p.ID == "" {
		return errors.New("plan id cannot be empty")
	}
	if len(p.Days) == 0 {
		return fmt.Errorf("plan %s has no days", p.ID)
	}
	for i, d := range p.Days {
		if d.Index != i+1 {
			return fmt.Errorf("plan %s: day at position %d has index %d", p.ID, i+1, d.Index)
		}
		if len(d.ContentIDs) == 0 {
			return fmt.Errorf("plan %s: day %d references no content", p.ID, d.Index)
		}
	}
	return nil
}

// Completion records when a day was marked done
type Completion struct {
	Day int       `json:"day"`
	At  time.Time `json:"at"`
}

// PlanProgress tracks one user's position in one plan
type PlanProgress struct {
	PlanID          string       `json:"plan_id"`
	CurrentDay      int          `json:"current_day"`
	Completed       []Completion `json:"completed"`
	LastCompletedAt *time.Time   `json:"last_completed_at,omitempty"`
	State           PlanState    `json:"state"`
	StartedAt       time.Time    `json:"started_at"`
}

// NewPlanProgress returns progress positioned at day 1
func NewPlanProgress(planID string, startedAt time.Time) PlanProgress {
	return PlanProgress{
		PlanID:     planID,
		CurrentDay: 1,
		Completed:  []Completion{},
		State:      PlanInProgress,
		StartedAt:  startedAt,
	}
}

// CompletedDays returns the completed day indices in ascending order
func (p PlanProgress) CompletedDays() []int {
	days := make([]int, 0, len(p.Completed))
	for _, c := range p.Completed {
		days = append(days, c.Day)
	}
	sort.Ints(days)
	return days
}

// IsCompleted reports whether a day index has been completed
func (p PlanProgress) IsCompleted(day int) bool {
	for _, c := range p.Completed {
		if c.Day == day {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot alias engine state
func (p PlanProgress) Clone() PlanProgress {
	out := p
	out.Completed = make([]Completion, len(p.Completed))
	copy(out.Completed, p.Completed)
	if p.LastCompletedAt != nil {
		t := *p.LastCompletedAt
		out.LastCompletedAt = &t
	}
	return out
}
