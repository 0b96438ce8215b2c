package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"animehub/pkg/models"
)

type achievementFile struct {
	Achievements []models.AchievementDef `yaml:"achievements"`
}

// LoadAchievements reads the achievement catalog from a YAML file. A missing
// file falls back to the built-in defaults; a malformed file is an error.
func LoadAchievements(path string) ([]models.AchievementDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultAchievements, nil
		}
		return nil, fmt.Errorf("failed to read achievements file: %w", err)
	}

	var file achievementFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse achievements file: %w", err)
	}

	if len(file.Achievements) == 0 {
		return models.DefaultAchievements, nil
	}

	for i, def := range file.Achievements {
		if def.ID == "" {
			return nil, fmt.Errorf("achievement %d: id is required", i)
		}
		if def.Threshold <= 0 {
			return nil, fmt.Errorf("achievement %s: threshold must be positive", def.ID)
		}
		if def.RequirementType != models.ReqApprovedContent && def.RequirementType != models.ReqReviewsWritten {
			return nil, fmt.Errorf("achievement %s: unknown requirement type %s", def.ID, def.RequirementType)
		}
	}

	return file.Achievements, nil
}
