// Package jobs holds scheduled maintenance tasks.
package jobs

import (
	"context"
	"log"
	"time"

	"promptforge/internal/services"
)

// UsageRollupJob snapshots every user's running Redis usage totals into
// MongoDB once a day, so reporting keeps working across Redis restarts and
// key expiry.
type UsageRollupJob struct {
	userService  *services.UserService
	usageService *services.UsageService
}

// NewUsageRollupJob creates a new usage rollup job
func NewUsageRollupJob(userService *services.UserService, usageService *services.UsageService) *UsageRollupJob {
	return &UsageRollupJob{
		userService:  userService,
		usageService: usageService,
	}
}

// Run executes the rollup for all users
func (j *UsageRollupJob) Run(ctx context.Context) error {
	if j.userService == nil || j.usageService == nil {
		log.Println("[USAGE-ROLLUP] Rollup disabled (requires user and usage services)")
		return nil
	}

	log.Println("[USAGE-ROLLUP] Starting usage snapshot rollup...")
	startTime := time.Now()

	users, err := j.userService.List(ctx)
	if err != nil {
		log.Printf("[USAGE-ROLLUP] Failed to list users: %v", err)
		return err
	}

	snapshotted := 0
	for _, user := range users {
		if err := j.usageService.Snapshot(ctx, user.ID); err != nil {
			log.Printf("[USAGE-ROLLUP] Failed to snapshot usage for user %s: %v", user.ID, err)
			continue
		}
		snapshotted++
	}

	log.Printf("[USAGE-ROLLUP] Completed: %d/%d users snapshotted in %v", snapshotted, len(users), time.Since(startTime))
	return nil
}
