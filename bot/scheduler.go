package bot

import (
	"log"

	"repost-bot/database"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the periodic cooldown sweep. Expired rows are also
// removed lazily on read; the sweep keeps the table small for users who never
// trigger the same rule again.
func startScheduler(store *database.Store) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@every 1m", func() {
		removed, err := store.CleanupExpiredCooldowns()
		if err != nil {
			log.Printf("Cooldown cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			log.Printf("Cleaned up %d expired cooldown(s)", removed)
		}
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Cooldown sweep scheduled to run every minute.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
