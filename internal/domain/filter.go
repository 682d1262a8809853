package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxRating    = 5
)

// PropertyFilter narrows a property listing. A nil field is absent.
// Prices are in dollars.
type PropertyFilter struct {
	City             *string  `json:"city,omitempty"`
	OwnerID          *int64   `json:"owner_id,omitempty"`
	MinPricePerNight *float64 `json:"minimum_price_per_night,omitempty"`
	MaxPricePerNight *float64 `json:"maximum_price_per_night,omitempty"`
	MinRating        *int     `json:"minimum_rating,omitempty"`
}

// FilterInput is the raw, untyped form of a PropertyFilter as it arrives from
// a query string. Empty values are treated as absent.
type FilterInput struct {
	City             string
	OwnerID          string
	MinPricePerNight string
	MaxPricePerNight string
	MinRating        string
}

// Count returns how many filters are present.
func (f PropertyFilter) Count() int {
	n := 0
	if f.City != nil {
		n++
	}
	if f.OwnerID != nil {
		n++
	}
	if f.MinPricePerNight != nil {
		n++
	}
	if f.MaxPricePerNight != nil {
		n++
	}
	if f.MinRating != nil {
		n++
	}
	return n
}

func (f PropertyFilter) Validate() error {
	if f.OwnerID != nil && *f.OwnerID <= 0 {
		return fmt.Errorf("%w: owner_id must be positive", ErrInvalidFilter)
	}
	if f.MinPricePerNight != nil && *f.MinPricePerNight < 0 {
		return fmt.Errorf("%w: minimum_price_per_night must not be negative", ErrInvalidFilter)
	}
	if f.MaxPricePerNight != nil && *f.MaxPricePerNight < 0 {
		return fmt.Errorf("%w: maximum_price_per_night must not be negative", ErrInvalidFilter)
	}
	if f.MinPricePerNight != nil && *f.MinPricePerNight > MaxPricePerNight {
		return fmt.Errorf("%w: minimum_price_per_night must not exceed %.2f", ErrInvalidFilter, MaxPricePerNight)
	}
	if f.MaxPricePerNight != nil && *f.MaxPricePerNight > MaxPricePerNight {
		return fmt.Errorf("%w: maximum_price_per_night must not exceed %.2f", ErrInvalidFilter, MaxPricePerNight)
	}
	if f.MinPricePerNight != nil && f.MaxPricePerNight != nil && *f.MinPricePerNight > *f.MaxPricePerNight {
		return fmt.Errorf("%w: minimum_price_per_night exceeds maximum_price_per_night", ErrInvalidFilter)
	}
	if f.MinRating != nil && (*f.MinRating < 1 || *f.MinRating > MaxRating) {
		return fmt.Errorf("%w: minimum_rating must be between 1 and %d", ErrInvalidFilter, MaxRating)
	}
	return nil
}

// ParsePropertyFilter converts raw input into a validated PropertyFilter.
// Any malformed value fails with an error wrapping ErrInvalidFilter.
func ParsePropertyFilter(in FilterInput) (PropertyFilter, error) {
	var f PropertyFilter

	if s := in.City; s != "" {
		f.City = &s
	}
	if s := strings.TrimSpace(in.OwnerID); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("%w: owner_id %q is not an integer", ErrInvalidFilter, s)
		}
		f.OwnerID = &n
	}
	if s := strings.TrimSpace(in.MinPricePerNight); s != "" {
		v, err := parseDollars(s)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("%w: minimum_price_per_night %q is not a number", ErrInvalidFilter, s)
		}
		f.MinPricePerNight = &v
	}
	if s := strings.TrimSpace(in.MaxPricePerNight); s != "" {
		v, err := parseDollars(s)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("%w: maximum_price_per_night %q is not a number", ErrInvalidFilter, s)
		}
		f.MaxPricePerNight = &v
	}
	if s := strings.TrimSpace(in.MinRating); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return PropertyFilter{}, fmt.Errorf("%w: minimum_rating %q is not an integer", ErrInvalidFilter, s)
		}
		f.MinRating = &n
	}

	if err := f.Validate(); err != nil {
		return PropertyFilter{}, err
	}
	return f, nil
}

// parseDollars rejects NaN and Inf, which ParseFloat accepts.
func parseDollars(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// ParseLimit returns def for an empty string and fails for anything that is
// not an integer in [1, max].
func ParseLimit(s string, def, max int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > max {
		return 0, fmt.Errorf("%w: limit must be an integer between 1 and %d", ErrInvalidInput, max)
	}
	return n, nil
}
