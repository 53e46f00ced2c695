package database

import (
	"gorm.io/gorm"
)

// constraintStatements are the hand-written pieces of schema AutoMigrate
// cannot express. Each statement must be safe to re-run on every boot:
// ALTER TABLE ADD CONSTRAINT has no IF NOT EXISTS form in Postgres, so the
// CHECK constraint is guarded by catching duplicate_object instead.
var constraintStatements = []string{
	// The available_seats bounds are enforced here as well as in the
	// conditional updates, so a bug can never persist a negative or
	// oversold count.
	`DO $$
	BEGIN
		ALTER TABLE events
		ADD CONSTRAINT seats_within_capacity
		CHECK (available_seats >= 0 AND available_seats <= total_capacity);
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$;`,

	// The expiry sweep scans pending bookings by hold deadline.
	`CREATE INDEX IF NOT EXISTS idx_bookings_pending_hold_expiry
	ON bookings (hold_expires_at)
	WHERE status = 'PENDING';`,

	// Per-user limit checks sum a user's active bookings per event.
	`CREATE INDEX IF NOT EXISTS idx_bookings_event_user_status
	ON bookings (event_id, user_id, status);`,

	// Proximity search filters to published events with coordinates.
	`CREATE INDEX IF NOT EXISTS idx_events_discoverable
	ON events (start_date)
	WHERE is_published = true AND latitude IS NOT NULL AND longitude IS NOT NULL;`,
}

// MigrateConstraints adds the constraints and indexes the seat accounting
// and the hot queries depend on.
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
