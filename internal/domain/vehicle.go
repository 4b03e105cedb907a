package domain

import "time"

// Vehicle represents a registered vehicle. Size is fixed at registration;
// there is no resize operation.
type Vehicle struct {
	ID          string
	PlateNumber string
	Size        Size
	CreatedAt   time.Time
}
