package main

import (
	"os"

	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/config"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/routes"
	"github.com/SzucsJuan/meals-fit-barreto-szucs-sub000/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	config.InitDB()

	if err := services.SeedAchievements(config.DB); err != nil {
		logrus.Fatalf("achievement seed failed: %v", err)
	}

	hub := services.NewRealtimeHub()

	var publisher *services.EventPublisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		p, err := services.NewEventPublisher(url, "achievement-events")
		if err != nil {
			logrus.Warnf("rabbitmq unavailable, achievement events stay in-process: %v", err)
		} else {
			publisher = p
			defer publisher.Close()
		}
	}
	services.InitEventDeps(config.DB, hub, publisher)

	// Nightly repair for cached recipe macros: covers recipe-level
	// edits that skipped the synchronous recompute path.
	recipeSvc := services.NewRecipeService(config.DB)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := recipeSvc.RecomputeAll(); err != nil {
			logrus.Warnf("bulk macro recompute failed: %v", err)
		}
	}); err != nil {
		logrus.Fatalf("cron setup failed: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(hub)
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}
