package models

import (
    "time"

    "gorm.io/datatypes"
    "gorm.io/gorm"
)

// Achievement is a catalog row. Criteria is a JSON object like
// {"event":"meal_logged","count":1}.
type Achievement struct {
    gorm.Model
    Code        string `gorm:"uniqueIndex;not null"`
    Title       string `gorm:"not null"`
    Description string `gorm:"type:text"`
    Criteria    datatypes.JSON
}

type UserAchievement struct {
    gorm.Model
    UserID        uint `gorm:"uniqueIndex:idx_user_achievement;not null"`
    AchievementID uint `gorm:"uniqueIndex:idx_user_achievement;not null"`
    UnlockedAt    time.Time

    Achievement Achievement
}
