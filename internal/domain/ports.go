package domain

import "context"

type UserRepository interface {
	// GetUserWithEmail and GetUserWithID return (nil, nil) when no row matches.
	GetUserWithEmail(ctx context.Context, email string) (*User, error)
	GetUserWithID(ctx context.Context, id int64) (*User, error)
	AddUser(ctx context.Context, u NewUser) (User, error)
}

type PropertyRepository interface {
	GetAllProperties(ctx context.Context, f PropertyFilter, limit int) ([]PropertyView, error)
	GetProperty(ctx context.Context, id int64) (Property, error)
	AddProperty(ctx context.Context, p NewProperty) (Property, error)
}

type ReservationRepository interface {
	GetAllReservations(ctx context.Context, guestID int64, limit int) ([]ReservationView, error)
	AddReservation(ctx context.Context, r Reservation) (Reservation, error)
}

// Repository is everything the services need from storage.
type Repository interface {
	UserRepository
	PropertyRepository
	ReservationRepository
}

type ListingFeed interface {
	ListListings(ctx context.Context, page, size int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
