// ABOUTME: Streak calculation over plan completion timestamps
// ABOUTME: Counts consecutive calendar days; several completions on one day count once
package plan

import (
	"sort"
	"time"

	"github.com/harper/devotional/internal/models"
)

// Streak returns the number of consecutive calendar days, ending on the day of the
// most recent completion, that each hold at least one completion. Days are taken in loc.
func Streak(p models.PlanProgress, loc *time.Location) int {
	days := completionDays(p, loc)
	if len(days) == 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) != 24*time.Hour {
			break
		}
		streak++
	}
	return streak
}

// CurrentStreak is Streak, but zero once the latest completion is older than yesterday
func CurrentStreak(p models.PlanProgress, now time.Time, loc *time.Location) int {
	days := completionDays(p, loc)
	if len(days) == 0 {
		return 0
	}
	today := calendarDay(now, loc)
	if today.Sub(days[0]) > 24*time.Hour {
		return 0
	}
	return Streak(p, loc)
}

// completionDays returns distinct completion dates, newest first, as UTC midnights
func completionDays(p models.PlanProgress, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool, len(p.Completed))
	var days []time.Time
	for _, c := range p.Completed {
		d := calendarDay(c.At, loc)
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// calendarDay maps t to midnight UTC of its date in loc, so day arithmetic ignores DST
func calendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
