package model

import (
	"time"
)

type AttemptStatus string

const (
	AttemptSolved  AttemptStatus = "solved"
	AttemptPartial AttemptStatus = "partial"
	AttemptFailed  AttemptStatus = "failed"
)

func (s AttemptStatus) Valid() bool {
	switch s {
	case AttemptSolved, AttemptPartial, AttemptFailed:
		return true
	}
	return false
}

// Attempt is immutable once recorded.
type Attempt struct {
	ID           string        `json:"id"`
	ProblemID    string        `json:"problemId"`
	UserID       string        `json:"userId"`
	Status       AttemptStatus `json:"status"`
	TimeTaken    *int          `json:"timeTaken"` // minutes
	Notes        *string       `json:"notes"`
	SolutionCode *string       `json:"solutionCode"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
