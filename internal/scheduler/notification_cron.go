package cron

import (
	"context"
	"time"

	"github.com/firstmoments/first-moments-api/internal/jobs"
	"github.com/firstmoments/first-moments-api/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartCronJobs wires the periodic maintenance tasks: the daily purge of
// expired notifications and the hourly achievement sweep.
func StartCronJobs(notificationService *services.NotificationService, sweeper *jobs.AchievementSweeper) *cron.Cron {
	c := cron.New()

	// Purge expired notifications daily. Reads already exclude expired
	// documents, this only reclaims space.
	c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := notificationService.PurgeExpired(ctx); err != nil {
			logrus.WithError(err).Error("PurgeExpired failed")
		}
	})

	// Reconcile count-based achievements hourly.
	c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := sweeper.Run(ctx); err != nil {
			logrus.WithError(err).Error("Achievement sweep failed")
		}
	})

	c.Start()
	return c
}
