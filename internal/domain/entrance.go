package domain

import "time"

// Entrance represents a garage entrance.
type Entrance struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// EntranceSpace links a space to an entrance with the walking distance
// between them. A space may be reachable from several entrances, but at
// most once per entrance.
type EntranceSpace struct {
	ID         string
	EntranceID string
	SpaceID    string
	Distance   int
	CreatedAt  time.Time
}
