// Package models - Achievement System
// One-shot badges granted when a cumulative counter crosses a fixed
// threshold. Progress is derived from counts of approved content versions
// and reviews, never stored directly.
package models

import "time"

// Achievement ids
const (
	AchievementFirstContribution = "FIRST_CONTRIBUTION"
	AchievementFirstReview       = "FIRST_REVIEW"
	AchievementContentMaster     = "CONTENT_MASTER"
	AchievementReviewMaster      = "REVIEW_MASTER"
	AchievementLanguageExpert    = "LANGUAGE_EXPERT"
)

// Requirement types
const (
	ReqApprovedContent = "approved_content"
	ReqReviewsWritten  = "reviews_written"
)

// AchievementDef defines an unlockable achievement
type AchievementDef struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description" yaml:"description"`
	RequirementType string `json:"requirement_type" yaml:"requirement_type"`
	Threshold       int    `json:"threshold" yaml:"threshold"`
}

// UserAchievement records a granted achievement
type UserAchievement struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	AchievementID string    `json:"achievement_id" db:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at" db:"unlocked_at"`
}

// DefaultAchievements is the built-in catalog, overridable from
// configs/achievements.yaml.
var DefaultAchievements = []AchievementDef{
	{ID: AchievementFirstContribution, Name: "First Contribution", Description: "First translated content approved", RequirementType: ReqApprovedContent, Threshold: 1},
	{ID: AchievementFirstReview, Name: "First Review", Description: "First review written", RequirementType: ReqReviewsWritten, Threshold: 1},
	{ID: AchievementContentMaster, Name: "Content Master", Description: "10 translated contents approved", RequirementType: ReqApprovedContent, Threshold: 10},
	{ID: AchievementReviewMaster, Name: "Review Master", Description: "20 reviews written", RequirementType: ReqReviewsWritten, Threshold: 20},
	{ID: AchievementLanguageExpert, Name: "Language Expert", Description: "25 translated contents approved", RequirementType: ReqApprovedContent, Threshold: 25},
}
