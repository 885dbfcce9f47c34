// Package stats derives the dashboard figures from a user's attempts.
package stats

import (
	"math"
	"time"

	"practice_tracker/internal/domain/model"
)

// StartOfDay returns local midnight of now, in now's location.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Compute builds the dashboard for a user with totalProblems problems.
//
// The latest attempt of each problem decides its state: "solved" counts as
// solved and "partial" as in progress. Ties on created_at go to the greater
// attempt id. successRate is solved over attempted problems as a rounded
// percentage. completedToday counts solved attempts, not problems, made
// since local midnight.
func Compute(totalProblems int, attempts []model.AttemptSummary, now time.Time) model.DashboardStats {
	latest := make(map[string]model.AttemptSummary, len(attempts))
	midnight := StartOfDay(now)
	completedToday := 0

	for _, a := range attempts {
		if cur, ok := latest[a.ProblemID]; !ok || newer(a, cur) {
			latest[a.ProblemID] = a
		}
		if a.Status == model.AttemptSolved && !a.CreatedAt.Before(midnight) {
			completedToday++
		}
	}

	var solved, inProgress int
	for _, a := range latest {
		switch a.Status {
		case model.AttemptSolved:
			solved++
		case model.AttemptPartial:
			inProgress++
		}
	}

	rate := 0
	if len(latest) > 0 {
		rate = int(math.Round(float64(solved) / float64(len(latest)) * 100))
	}

	return model.DashboardStats{
		TotalProblems:  totalProblems,
		Solved:         solved,
		InProgress:     inProgress,
		SuccessRate:    rate,
		CompletedToday: completedToday,
	}
}

func newer(a, b model.AttemptSummary) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
