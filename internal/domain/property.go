package domain

import "math"

type Property struct {
	ID                int64  `json:"id"`
	OwnerID           int64  `json:"owner_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url"`
	CostPerNight      int64  `json:"cost_per_night"` // cents
	ParkingSpaces     int    `json:"parking_spaces"`
	NumberOfBathrooms int    `json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `json:"number_of_bedrooms"`
	Street            string `json:"street"`
	City              string `json:"city"`
	Province          string `json:"province"`
	PostCode          string `json:"post_code"`
	Country           string `json:"country"`
	Active            bool   `json:"active"`
}

// NewProperty is the insert payload. CostPerNight is in dollars and is
// converted to cents by the repository.
type NewProperty struct {
	OwnerID           int64   `json:"owner_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"required,max=255"`
	Description       string  `json:"description"`
	ThumbnailPhotoURL string  `json:"thumbnail_photo_url" validate:"omitempty,url,max=255"`
	CoverPhotoURL     string  `json:"cover_photo_url" validate:"omitempty,url,max=255"`
	CostPerNight      float64 `json:"cost_per_night" validate:"gte=0,lte=21474836.47"`
	ParkingSpaces     int     `json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int     `json:"number_of_bedrooms" validate:"gte=0"`
	Street            string  `json:"street" validate:"required,max=255"`
	City              string  `json:"city" validate:"required,max=255"`
	Province          string  `json:"province" validate:"required,max=255"`
	PostCode          string  `json:"post_code" validate:"required,max=255"`
	Country           string  `json:"country" validate:"required,max=255"`
}

// PropertyView is one row of a filtered listing. AverageRating is nil for a
// property without reviews.
type PropertyView struct {
	Property
	AverageRating *float64 `json:"average_rating"`
}

type PropertyReview struct {
	ID            int64  `json:"id"`
	GuestID       int64  `json:"guest_id"`
	PropertyID    int64  `json:"property_id"`
	ReservationID int64  `json:"reservation_id"`
	Rating        int    `json:"rating"`
	Message       string `json:"message"`
}

// MaxPricePerNight is the largest dollar amount cost_per_night can hold
// (a signed 32-bit count of cents). Keep in sync with the validate tag on
// NewProperty.CostPerNight.
const MaxPricePerNight = 21474836.47

// DollarsToCents rounds to the nearest cent so 0.29 becomes 29, not 28.
func DollarsToCents(d float64) int64 {
	return int64(math.Round(d * 100))
}

func CentsToDollars(c int64) float64 {
	return float64(c) / 100
}
