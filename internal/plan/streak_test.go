// ABOUTME: Tests for streak calculation
// ABOUTME: Same-day completions, gaps, time zones, and the live current streak
package plan

import (
	"testing"
	"time"

	"github.com/harper/devotional/internal/models"
)

func progressAt(times ...time.Time) models.PlanProgress {
	p := models.PlanProgress{PlanID: "p"}
	for i, at := range times {
		p.Completed = append(p.Completed, models.Completion{Day: i + 1, At: at})
	}
	return p
}

func day(d, hour int) time.Time {
	return time.Date(2025, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{"none", nil, 0},
		{"single", []time.Time{day(1, 9)}, 1},
		{"consecutive", []time.Time{day(1, 9), day(2, 9), day(3, 9)}, 3},
		{"same day counts once", []time.Time{day(1, 9), day(2, 8), day(2, 20)}, 2},
		{"gap resets", []time.Time{day(1, 9), day(2, 9), day(4, 9)}, 1},
		{"run after gap", []time.Time{day(1, 9), day(3, 9), day(4, 9), day(5, 9)}, 3},
		{"late night then early morning", []time.Time{day(1, 23), day(2, 1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(progressAt(tt.times...), time.UTC); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreak_UsesLocation(t *testing.T) {
	// 23:30 and 00:30 UTC on different UTC days fall on the same day at UTC-5
	ny := time.FixedZone("UTC-5", -5*60*60)
	p := progressAt(time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC), time.Date(2025, 3, 2, 0, 30, 0, 0, time.UTC))

	if got := Streak(p, time.UTC); got != 2 {
		t.Errorf("Streak(UTC) = %d, want 2", got)
	}
	if got := Streak(p, ny); got != 1 {
		t.Errorf("Streak(UTC-5) = %d, want 1", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	p := progressAt(day(1, 9), day(2, 9), day(3, 9))

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same day", day(3, 22), 3},
		{"next day", day(4, 6), 3},
		{"two days later", day(5, 6), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(p, tt.now, time.UTC); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
