package app

import (
	"errors"
	"testing"

	"lightbnb/internal/domain"
)

func TestMapListing_CentsWinOverDollars(t *testing.T) {
	np, err := mapListing(map[string]any{
		"title":                "Loft",
		"cost_per_night":       1.0,
		"cost_per_night_cents": "9950",
		"owner_id":             "5",
	}, 1)
	if err != nil {
		t.Fatalf("mapListing: %v", err)
	}
	if np.CostPerNight != 99.5 || np.OwnerID != 5 {
		t.Fatalf("unexpected mapping: %+v", np)
	}
}

func TestMapListing_PhotosFallback(t *testing.T) {
	np, err := mapListing(map[string]any{
		"price":  80,
		"images": []any{"https://images.example.com/a.jpg", "https://images.example.com/b.jpg"},
	}, 1)
	if err != nil {
		t.Fatalf("mapListing: %v", err)
	}
	if np.CoverPhotoURL != "https://images.example.com/a.jpg" || np.ThumbnailPhotoURL != np.CoverPhotoURL {
		t.Fatalf("unexpected photos: %+v", np)
	}
	if np.CostPerNight != 80 {
		t.Fatalf("cost = %v", np.CostPerNight)
	}
}

func TestMapListing_NoPrice(t *testing.T) {
	_, err := mapListing(map[string]any{"title": "x"}, 1)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLookupAny_Nested(t *testing.T) {
	m := map[string]any{"a": map[string]any{"b": map[string]any{"c": "x"}}}
	if got := lookupStr(m, "a.b.c"); got != "x" {
		t.Fatalf("lookupStr = %q", got)
	}
	if got := lookupAny(m, "a.z.c"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
