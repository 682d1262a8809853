package domain

import "time"

type Reservation struct {
	ID         int64     `json:"id"`
	GuestID    int64     `json:"guest_id" validate:"required,gt=0"`
	PropertyID int64     `json:"property_id" validate:"required,gt=0"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// ReservationView is a guest's reservation joined with the reserved property
// and the property's average rating.
type ReservationView struct {
	Reservation
	Property      Property `json:"property"`
	AverageRating *float64 `json:"average_rating"`
}
