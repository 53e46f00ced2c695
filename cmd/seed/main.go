package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"gatherly/internal/events"
	"gatherly/internal/shared/config"
	"gatherly/internal/shared/database"
	"gatherly/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Gatherly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"tickets",
		"payments",
		"bookings",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedEvents(userIDs["organizer"]); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one user per role
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	usersData := []struct {
		key      string
		fullName string
		email    string
		phone    string
		role     users.Role
	}{
		{"admin", "Asha Iyer", "admin@gatherly.dev", "+919800000001", users.RoleAdmin},
		{"organizer", "Rohan Mehta", "organizer@gatherly.dev", "+919800000002", users.RoleOrganizer},
		{"attendee1", "Priya Nair", "priya@gatherly.dev", "+919800000003", users.RoleAttendee},
		{"attendee2", "Arjun Rao", "arjun@gatherly.dev", "+919800000004", users.RoleAttendee},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FullName:  userData.fullName,
			Email:     userData.email,
			Phone:     userData.phone,
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvents creates published, geotagged events across a few metros so the
// nearby search has something to rank
func (s *Seeder) SeedEvents(organizerID uuid.UUID) error {
	fmt.Println("  🎪 Seeding events...")

	eventsData := []struct {
		title       string
		description string
		venueName   string
		address     string
		lat         float64
		lng         float64
		capacity    int
		basePrice   float64
		daysFromNow int
		maxPerUser  int
	}{
		{
			title:       "Tech Conference 2026",
			description: "Annual technology conference featuring the latest innovations and industry leaders.",
			venueName:   "Bandra Kurla Convention Center",
			address:     "BKC, Mumbai, Maharashtra",
			lat:         19.0676, lng: 72.8681,
			capacity: 500, basePrice: 1500.0, daysFromNow: 30, maxPerUser: 4,
		},
		{
			title:       "Classical Music Evening",
			description: "An elegant evening of classical music performed by renowned musicians.",
			venueName:   "Siri Fort Auditorium",
			address:     "August Kranti Marg, New Delhi",
			lat:         28.5535, lng: 77.2157,
			capacity: 300, basePrice: 800.0, daysFromNow: 45, maxPerUser: 6,
		},
		{
			title:       "Startup Pitch Night",
			description: "Watch promising startups pitch their ideas to investors and industry experts.",
			venueName:   "Koramangala Innovation Hub",
			address:     "Koramangala, Bengaluru, Karnataka",
			lat:         12.9352, lng: 77.6245,
			capacity: 120, basePrice: 500.0, daysFromNow: 15, maxPerUser: 2,
		},
		{
			title:       "Food & Wine Festival",
			description: "A delightful festival celebrating local cuisine and fine wines.",
			venueName:   "Phoenix Marketcity Lawns",
			address:     "Viman Nagar, Pune, Maharashtra",
			lat:         18.5620, lng: 73.9171,
			capacity: 800, basePrice: 1200.0, daysFromNow: 60, maxPerUser: 10,
		},
		{
			title:       "Marina Beach Run",
			description: "Early morning 10K along the marina, open to all fitness levels.",
			venueName:   "Marina Beach",
			address:     "Kamarajar Salai, Chennai, Tamil Nadu",
			lat:         13.0500, lng: 80.2824,
			capacity: 1000, basePrice: 300.0, daysFromNow: 25, maxPerUser: 5,
		},
	}

	for _, eventData := range eventsData {
		start := time.Now().AddDate(0, 0, eventData.daysFromNow)
		lat, lng := eventData.lat, eventData.lng

		event := events.Event{
			ID:                uuid.New(),
			Slug:              events.GenerateSlug(eventData.title),
			Title:             eventData.title,
			Description:       eventData.description,
			VenueName:         eventData.venueName,
			VenueAddress:      eventData.address,
			Latitude:          &lat,
			Longitude:         &lng,
			StartDate:         start,
			EndDate:           start.Add(4 * time.Hour),
			TotalCapacity:     eventData.capacity,
			AvailableSeats:    eventData.capacity,
			BasePrice:         eventData.basePrice,
			Currency:          "INR",
			MaxTicketsPerUser: eventData.maxPerUser,
			IsPublished:       true,
			Status:            events.StatusPublished,
			OrganizerID:       organizerID,
			CreatedAt:         time.Now(),
			UpdatedAt:         time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", event.Title, err)
		}

		fmt.Printf("    ✅ Created event: %s (%s)\n", event.Title, event.Slug)
	}

	return nil
}
