// Package seeder fills a running service with fake competition data and checks
// the served leaderboard against a local allocation of the same data.
package seeder

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Participants int           // Number of participants to register
	Videos       int           // Number of distinct videos to submit
	MinViews     int64         // View floor of the lowest tier
	Rate         float64       // Requests per second; 0 means unlimited
	Workers      int           // Concurrent submitters
	Seed         int64         // Faker seed; identical seeds give identical data
	Timeout      time.Duration // HTTP request timeout
	WaitTimeout  time.Duration // How long to wait for ingestion to catch up
	Verbose      bool          // Log every request
}

// Stats holds the outcome of a seeding run.
type Stats struct {
	CompetitionID   string
	EventsGenerated int
	EventsAccepted  int
	EventsDuplicate int
	EventsFailed    int
	Winners         int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
