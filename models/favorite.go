package models

import "gorm.io/gorm"

type Favorite struct {
    gorm.Model
    UserID   uint `gorm:"uniqueIndex:idx_user_favorite;not null"`
    RecipeID uint `gorm:"uniqueIndex:idx_user_favorite;not null"`
}

// RecipeVote holds one user's 1-5 rating of a recipe; voting again
// replaces the previous score.
type RecipeVote struct {
    gorm.Model
    UserID   uint `gorm:"uniqueIndex:idx_user_vote;not null"`
    RecipeID uint `gorm:"uniqueIndex:idx_user_vote;not null"`
    Score    int  `gorm:"not null"`
}
