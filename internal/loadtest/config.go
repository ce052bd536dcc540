// Package loadtest drives a running ranking service over HTTP: it builds
// random configurations from the live catalog, encodes and ranks them,
// publishes them as shares and checks the answers are consistent.
package loadtest

import (
	"time"

	"github.com/okian/mcr/internal/domain/params"
)

// Config holds configuration for a run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Configurations int           // Number of random configurations to exercise
	MaxParameters  int           // Upper bound of parameters per configuration
	TopN           int           // Entries requested from /rank
	Workers        int           // Concurrent requests
	Timeout        time.Duration // HTTP request timeout
	OutputFile     string        // Optional JSON dump of generated share strings
	Cleanup        bool          // Delete created shares at the end
	Seed           uint64        // Generator seed; 0 picks one
}

// Entry is a ranking row as served by /rank.
type Entry struct {
	Rank  int     `json:"rank"`
	Slug  string  `json:"slug"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Share is a published configuration as served by /shares.
type Share struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Params string `json:"params"`
}

// Case is one generated configuration and what the service made of it.
type Case struct {
	Name       string                 `json:"name"`
	Parameters []params.UserParameter `json:"parameters"`
	Params     string                 `json:"params"`
	ShareID    string                 `json:"share_id,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Encoded   int
	Ranked    int
	Shared    int
	Deleted   int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
