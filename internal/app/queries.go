package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

// listingVersionKey is bumped on every property insert; search cache keys
// embed it, so a new listing invalidates every cached search at once.
const listingVersionKey = "properties:version"

type QueryService struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService accepts a nil cache, in which case every read hits the repository.
func NewQueryService(r domain.Repository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) SearchProperties(ctx context.Context, f domain.PropertyFilter, limit int) ([]domain.PropertyView, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	if s.cache == nil {
		return s.repo.GetAllProperties(ctx, f, limit)
	}

	key := searchKey(f, limit, listingVersion(ctx, s.cache))
	var out []domain.PropertyView
	ok, err := s.cache.Get(ctx, key, &out)
	if ok && err == nil {
		return out, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cached search unreadable; querying storage")
	}

	rows, err := s.repo.GetAllProperties(ctx, f, limit)
	if err != nil {
		return nil, err
	}
	// copy so the caller cannot mutate what was cached
	out = make([]domain.PropertyView, len(rows))
	copy(out, rows)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.repo.GetUserWithID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *u, nil
}

func (s *QueryService) GetReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationView, error) {
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	return s.repo.GetAllReservations(ctx, guestID, limit)
}

func listingVersion(ctx context.Context, c domain.Cache) int64 {
	var v int64
	if ok, err := c.Get(ctx, listingVersionKey, &v); !ok || err != nil {
		return 0
	}
	return v
}

func searchKey(f domain.PropertyFilter, limit int, version int64) string {
	b, _ := json.Marshal(f)
	sum := sha1.Sum(b)
	return fmt.Sprintf("properties:%d:%d:%s", version, limit, hex.EncodeToString(sum[:]))
}
