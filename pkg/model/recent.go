package model

import "time"

// Visit records a single page visit in the recent-pages log.
type Visit struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxRecentVisits caps the recent-pages log. Oldest entries are evicted
// once the cap is reached.
const MaxRecentVisits = 10
