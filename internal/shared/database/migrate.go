package database

import (
	"gatherly/internal/bookings"
	"gatherly/internal/events"
	"gatherly/internal/tickets"
	"gatherly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&bookings.Booking{},
		&bookings.Payment{},
		&tickets.Ticket{},
	)
}
