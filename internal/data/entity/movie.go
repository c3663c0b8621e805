package entity

import (
	"time"
)

type ReleaseStatus string

const (
	ReleaseStatusNowPlaying ReleaseStatus = "now_playing"
	ReleaseStatusComingSoon ReleaseStatus = "coming_soon"
)

// Movie is a collaborator entity: the engine only reads it. Genre feeds
// the pricing-factor advisor, duration feeds auto end-times in callers.
type Movie struct {
	Base
	Title             string        `db:"title"`
	Genre             string        `db:"genre"`
	Rating            float64       `db:"rating"`
	ReleaseDate       time.Time     `db:"release_date"`
	DurationInMinutes int           `db:"duration_in_minutes"`
	ReleaseStatus     ReleaseStatus `db:"release_status"`
}
