package services

import (
	"time"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/models"
)

// WeeklyDay is one entry of the trailing-week time series.
type WeeklyDay struct {
	Date     string  `json:"date"`
	Label    string  `json:"label"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// WeeklyTotals returns the 8 consecutive calendar days ending at ref
// (computed in loc), ref-7 through ref inclusive. The historical
// window has always been 8 days, not 7; clients depend on the extra
// leading day, so the boundary stays as-is.
//
// Days without logged meals appear as zero rows; the skeleton is
// built first and aggregated values are overlaid on top. The most
// recent day is labelled "Today" regardless of weekday.
func (s *MealService) WeeklyTotals(userID uint, ref time.Time, loc *time.Location) ([]WeeklyDay, error) {
	end := dayStart(ref.In(loc))
	start := end.AddDate(0, 0, -7)

	// Log dates are stored as UTC midnights of the calendar date, so
	// the range bounds use the same representation.
	startUTC := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endUTC := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var rows []struct {
		LogDate  time.Time
		Calories float64
		Protein  float64
		Carbs    float64
		Fat      float64
	}
	err := s.db.Model(&models.MealDetail{}).
		Select("meal_logs.log_date AS log_date, COALESCE(SUM(meal_details.calories),0) AS calories, COALESCE(SUM(meal_details.protein),0) AS protein, COALESCE(SUM(meal_details.carbs),0) AS carbs, COALESCE(SUM(meal_details.fat),0) AS fat").
		Joins("JOIN meal_logs ON meal_logs.id = meal_details.meal_log_id").
		Where("meal_logs.user_id = ? AND meal_logs.log_date BETWEEN ? AND ?", userID, startUTC, endUTC).
		Where("meal_logs.deleted_at IS NULL").
		Group("meal_logs.log_date").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	idx := make(map[string]WeeklyDay, len(rows))
	for _, r := range rows {
		key := r.LogDate.UTC().Format("2006-01-02")
		idx[key] = WeeklyDay{
			Calories: round2(r.Calories),
			Protein:  round2(r.Protein),
			Carbs:    round2(r.Carbs),
			Fats:     round2(r.Fat),
		}
	}

	out := make([]WeeklyDay, 0, 8)
	for i := 0; i <= 7; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		day := idx[key] // zero value when nothing was logged
		day.Date = key
		day.Label = d.Weekday().String()
		if i == 7 {
			day.Label = "Today"
		}
		out = append(out, day)
	}
	return out, nil
}
