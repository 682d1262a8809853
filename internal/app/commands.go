package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"lightbnb/internal/domain"
)

const listingVersionTTL = 30 * 24 * 60 * 60 // seconds

type CommandService struct {
	repo  domain.Repository
	cache domain.Cache
	cost  int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewCommandService accepts a nil cache. bcryptCost <= 0 uses bcrypt.DefaultCost.
func NewCommandService(r domain.Repository, c domain.Cache, bcryptCost int) *CommandService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CommandService{repo: r, cache: c, cost: bcryptCost}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// RegisterUser stores a bcrypt hash of the password, never the password.
func (s *CommandService) RegisterUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	nu.Name = strings.TrimSpace(nu.Name)
	nu.Email = normalizeEmail(nu.Email)
	if err := domain.Validate(nu); err != nil {
		return domain.User{}, err
	}
	// bcrypt ignores input beyond 72 bytes and newer versions reject it
	if len(nu.Password) > 72 {
		return domain.User{}, fmt.Errorf("%w: password longer than 72 bytes", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	nu.Password = string(hash)
	return s.repo.AddUser(ctx, nu)
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *CommandService) Login(ctx context.Context, email, password string) (domain.User, error) {
	u, err := s.repo.GetUserWithEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.User{}, err
	}
	if u == nil {
		// spend the same bcrypt work as a wrong password so response time
		// does not reveal which emails are registered
		_ = bcrypt.CompareHashAndPassword(s.unknownUserHash(), []byte(password))
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Warn().Int64("user_id", u.ID).Err(err).Msg("stored password is not a bcrypt hash")
		}
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return *u, nil
}

func (s *CommandService) unknownUserHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("lightbnb:no-such-user"), s.cost)
		if err != nil {
			log.Error().Err(err).Msg("generate placeholder hash failed")
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func (s *CommandService) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	if err := domain.Validate(np); err != nil {
		return domain.Property{}, err
	}
	p, err := s.repo.AddProperty(ctx, np)
	if err != nil {
		return domain.Property{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, listingVersionKey, time.Now().UnixNano(), listingVersionTTL); err != nil {
			log.Warn().Err(err).Msg("bump listing version failed; cached searches may be stale")
		}
	}
	return p, nil
}

func (s *CommandService) AddReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	if err := domain.Validate(r); err != nil {
		return domain.Reservation{}, err
	}
	if _, err := s.repo.GetProperty(ctx, r.PropertyID); err != nil {
		return domain.Reservation{}, err
	}
	guest, err := s.repo.GetUserWithID(ctx, r.GuestID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if guest == nil {
		return domain.Reservation{}, fmt.Errorf("guest %d: %w", r.GuestID, domain.ErrNotFound)
	}
	return s.repo.AddReservation(ctx, r)
}
