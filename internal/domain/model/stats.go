package model

import (
	"time"
)

// AttemptSummary is the slice of an attempt the statistics need.
type AttemptSummary struct {
	ID        string
	ProblemID string
	Status    AttemptStatus
	CreatedAt time.Time
}

type DashboardStats struct {
	TotalProblems  int `json:"totalProblems"`
	Solved         int `json:"solved"`
	InProgress     int `json:"inProgress"`
	SuccessRate    int `json:"successRate"`
	CompletedToday int `json:"completedToday"`
}
