package domain

import "time"

// Space represents a single parking space. Occupancy is not stored on the
// space itself; it is derived from the presence of a STARTED parking
// session for the space.
type Space struct {
	ID        string
	Name      string
	Size      Size
	CreatedAt time.Time
}

// SpaceWithDistance is a space paired with its distance from a particular
// entrance, as returned by catalog queries.
type SpaceWithDistance struct {
	Space
	Distance int
}
