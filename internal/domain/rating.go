package domain

import "time"

// Rating is a site review; one per email address.
type Rating struct {
	ID        string
	Email     string
	Rating    int
	Review    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
