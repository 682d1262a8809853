package app

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"

	"lightbnb/internal/domain"
)

type ImportService struct {
	feed  domain.ListingFeed
	cmd   *CommandService
	owner int64

	lastPage [sha1.Size]byte
	fetched  int
}

// NewImportService inserts through cmd so imported listings get the same
// validation and cache invalidation as API inserts.
func NewImportService(f domain.ListingFeed, cmd *CommandService, defaultOwner int64) *ImportService {
	return &ImportService{feed: f, cmd: cmd, owner: defaultOwner}
}

// ErrRepeatedPage means the feed answered with the same listings as the
// previous page, which happens when it ignores the page parameter.
var ErrRepeatedPage = errors.New("feed returned the previous page again")

// FetchPage is not safe for concurrent use: it compares each non-empty page
// with the one fetched before it.
func (s *ImportService) FetchPage(ctx context.Context, page, size int) ([]map[string]any, error) {
	listings, err := s.feed.ListListings(ctx, page, size)
	if err != nil || len(listings) == 0 {
		return listings, err
	}
	b, err := json.Marshal(listings)
	if err != nil {
		return nil, fmt.Errorf("fingerprint page %d: %w", page, err)
	}
	sum := sha1.Sum(b)
	if s.fetched > 0 && sum == s.lastPage {
		return nil, fmt.Errorf("page %d: %w", page, ErrRepeatedPage)
	}
	s.lastPage = sum
	s.fetched++
	return listings, nil
}

// ErrSkipped marks a listing that cannot be mapped or fails validation.
// The import carries on past it.
var ErrSkipped = errors.New("listing skipped")

func (s *ImportService) ImportListing(ctx context.Context, raw map[string]any) (domain.Property, error) {
	np, err := mapListing(raw, s.owner)
	if err != nil {
		return domain.Property{}, fmt.Errorf("%w: %v", ErrSkipped, err)
	}
	p, err := s.cmd.AddProperty(ctx, np)
	if errors.Is(err, domain.ErrInvalidInput) {
		return domain.Property{}, fmt.Errorf("%w: %v", ErrSkipped, err)
	}
	return p, err
}
