// Package models - Points and Level System
// Per-user running point total with a level derived from a fixed
// ascending threshold table.
package models

import "time"

// Point awards per action
const (
	PointsContentSubmission = 10
	PointsContentApproved   = 50
	PointsContentRejected   = 0
	PointsReviewSubmission  = 15
)

// MaxLevel is the highest reachable level
const MaxLevel = 10

// LevelThresholds maps level -> minimum points required for that level.
// Level is always the largest L such that points >= LevelThresholds[L].
var LevelThresholds = map[int]int{
	1:  0,
	2:  100,
	3:  250,
	4:  500,
	5:  1000,
	6:  2000,
	7:  4000,
	8:  8000,
	9:  16000,
	10: 32000,
}

// UserPoints tracks a user's running point total and derived level
type UserPoints struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Points    int       `json:"points" db:"points"`
	Level     int       `json:"level" db:"level"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LevelForPoints returns the highest level whose threshold is <= points
func LevelForPoints(points int) int {
	level := 1
	for l := 1; l <= MaxLevel; l++ {
		if points >= LevelThresholds[l] {
			level = l
		}
	}
	return level
}

// PointsToNextLevel returns how many points remain until the next level,
// or 0 when the user is already at the max level.
func PointsToNextLevel(points int) int {
	level := LevelForPoints(points)
	if level >= MaxLevel {
		return 0
	}
	return LevelThresholds[level+1] - points
}
