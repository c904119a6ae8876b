package services

import (
	"encoding/json"
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type eventDeps struct {
	db  *gorm.DB
	rt  *RealtimeHub
	pub *EventPublisher
}

var _events eventDeps

func InitEventDeps(db *gorm.DB, rt *RealtimeHub, pub *EventPublisher) {
	_events = eventDeps{db: db, rt: rt, pub: pub}
}

// EmitMealLogged runs the meal-count achievement checks off the
// request path. Safe to call anywhere; failures are logged and
// never reach the caller.
func EmitMealLogged(userID uint) {
	if _events.db == nil {
		return // not initialized (tests)
	}
	go checkUnlocks(userID, "meal_logged")
}

// EmitRecipeFavorited runs the favorite-count achievement checks.
func EmitRecipeFavorited(userID uint) {
	if _events.db == nil {
		return
	}
	go checkUnlocks(userID, "recipe_favorited")
}

type achievementCriteria struct {
	Event string `json:"event"`
	Count int64  `json:"count"`
}

func checkUnlocks(userID uint, event string) {
	db := _events.db

	var count int64
	var err error
	switch event {
	case "meal_logged":
		err = db.Model(&models.MealDetail{}).
			Joins("JOIN meal_logs ON meal_logs.id = meal_details.meal_log_id").
			Where("meal_logs.user_id = ?", userID).
			Count(&count).Error
	case "recipe_favorited":
		err = db.Model(&models.Favorite{}).
			Where("user_id = ?", userID).
			Count(&count).Error
	default:
		return
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "event": event, "error": err}).
			Warn("achievement count query failed")
		return
	}

	var catalog []models.Achievement
	if err := db.Find(&catalog).Error; err != nil {
		logrus.WithField("error", err).Warn("achievement catalog load failed")
		return
	}

	for _, a := range catalog {
		var crit achievementCriteria
		if err := json.Unmarshal(a.Criteria, &crit); err != nil || crit.Event != event {
			continue
		}
		if count < crit.Count {
			continue
		}

		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    time.Now(),
		}
		res := db.Where("user_id = ? AND achievement_id = ?", userID, a.ID).
			FirstOrCreate(&ua)
		if res.Error != nil || res.RowsAffected == 0 {
			continue // already unlocked or store hiccup
		}

		if _events.rt != nil {
			_events.rt.Broadcast(userID, map[string]any{
				"kind":        "achievement.unlocked",
				"achievement": a,
			})
		}
		if _events.pub != nil {
			if err := _events.pub.Publish(map[string]any{
				"user_id":     userID,
				"achievement": a.Code,
				"unlocked_at": ua.UnlockedAt,
			}); err != nil {
				logrus.WithField("error", err).Warn("achievement event publish failed")
			}
		}
	}
}
