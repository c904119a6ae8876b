package models

import (
    "time"

    "gorm.io/gorm"
)

type User struct {
    gorm.Model
    PublicID      string `gorm:"type:varchar(36);uniqueIndex;not null"`
    Email         string `gorm:"uniqueIndex;not null"`
    Password      string `gorm:"not null"`
    FirstName     string
    LastName      string
    Birthday      time.Time
    Sex           string `gorm:"size:10"` // "male" | "female" | ""
    HeightCm      float64
    WeightKg      float64
    ActivityLevel string `gorm:"size:20"` // sedentary|light|moderate|high|athlete
    Experience    string `gorm:"size:20"` // beginner|intermediate|advanced
    Disabled      bool
    Onboarded     bool
}
