package app

import (
	"fmt"
	"strconv"
	"strings"

	"lightbnb/internal/domain"
)

/********** alias registries (single source of truth) **********/

var listingAliases = map[string][]string{
	"title":       {"title", "name", "listing_name", "headline"},
	"description": {"description", "summary", "details.description"},
	"thumbnail":   {"thumbnail_photo_url", "thumbnail_url", "photos.thumbnail", "images.thumbnail"},
	"cover":       {"cover_photo_url", "cover_url", "photos.cover", "images.cover", "picture_url"},
	"street":      {"street", "address.street", "address.line1", "address.address_line1"},
	"city":        {"city", "address.city", "location.city"},
	"province":    {"province", "state", "region", "address.province", "address.state", "address.region"},
	"post_code":   {"post_code", "postal_code", "zip", "address.post_code", "address.postal_code", "address.zip"},
	"country":     {"country", "address.country", "location.country"},
}

var (
	priceDollarPaths = []string{"cost_per_night", "price_per_night", "nightly_price", "price", "pricing.nightly"}
	priceCentPaths   = []string{"cost_per_night_cents", "price_cents", "pricing.nightly_cents"}
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0" or "$120").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$"))
			s = strings.ReplaceAll(s, ",", ".")
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstPhoto: accept a string or the first entry of []any holding strings or {url/src}.
func firstPhoto(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case []any:
			for _, it := range v {
				switch t := it.(type) {
				case string:
					if t != "" {
						return t
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						return u
					}
					if u, ok := t["src"].(string); ok && u != "" {
						return u
					}
				}
			}
		}
	}
	return ""
}

func intOr(p *int64, def int) int {
	if p == nil || *p < 0 {
		return def
	}
	return int(*p)
}

/********** listing mapper **********/

// mapListing turns a raw feed listing into an insert payload. Listings
// without an owner are assigned defaultOwner. Prices in cents take
// precedence over dollar prices.
func mapListing(l map[string]any, defaultOwner int64) (domain.NewProperty, error) {
	owner := defaultOwner
	if v := firstIntFlexible(l, "owner_id", "host_id", "owner.id", "host.id"); v != nil && *v > 0 {
		owner = *v
	}

	var dollars float64
	if c := getFloatFlexible(l, priceCentPaths...); c != nil {
		dollars = *c / 100
	} else if d := getFloatFlexible(l, priceDollarPaths...); d != nil {
		dollars = *d
	} else {
		return domain.NewProperty{}, fmt.Errorf("%w: listing has no nightly price", domain.ErrInvalidInput)
	}

	np := domain.NewProperty{
		OwnerID:           owner,
		Title:             firstNonEmptyAlias(l, listingAliases, "title"),
		Description:       firstNonEmptyAlias(l, listingAliases, "description"),
		ThumbnailPhotoURL: firstNonEmptyAlias(l, listingAliases, "thumbnail"),
		CoverPhotoURL:     firstNonEmptyAlias(l, listingAliases, "cover"),
		CostPerNight:      dollars,
		ParkingSpaces:     intOr(firstIntFlexible(l, "parking_spaces", "parking", "amenities.parking_spaces"), 0),
		NumberOfBathrooms: intOr(firstIntFlexible(l, "number_of_bathrooms", "bathrooms", "baths"), 0),
		NumberOfBedrooms:  intOr(firstIntFlexible(l, "number_of_bedrooms", "bedrooms", "beds"), 0),
		Street:            firstNonEmptyAlias(l, listingAliases, "street"),
		City:              firstNonEmptyAlias(l, listingAliases, "city"),
		Province:          firstNonEmptyAlias(l, listingAliases, "province"),
		PostCode:          firstNonEmptyAlias(l, listingAliases, "post_code"),
		Country:           firstNonEmptyAlias(l, listingAliases, "country"),
	}

	// fall back to a photo gallery when explicit thumbnail/cover fields are missing
	if np.CoverPhotoURL == "" {
		np.CoverPhotoURL = firstPhoto(l, "photos", "images")
	}
	if np.ThumbnailPhotoURL == "" {
		np.ThumbnailPhotoURL = np.CoverPhotoURL
	}
	return np, nil
}
