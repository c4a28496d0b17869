// Package smoke drives concurrent requests against a running catbreeds
// server and checks every route answers with an expected status.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Breeds  []string      // Breeds checked on the detail routes
	Rounds  int           // Times each check is repeated
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every check
}

// DefaultBreeds are checked when none are given.
var DefaultBreeds = []string{"Abyssinian", "Maine Coon", "Siamese"}

// Stats holds run statistics.
type Stats struct {
	Requests   int64
	OK         int64
	NotFound   int64
	Upstream   int64
	Failed     int64
	MaxLatency time.Duration
	StartTime  time.Time
	Duration   time.Duration
}

// Check is one GET and the statuses it may answer with.
type Check struct {
	Path   string
	Accept []int
}
