package app_test

import (
	"context"
	"encoding/json"
	"sync"

	"lightbnb/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu           sync.Mutex
	users        []domain.User
	props        []domain.Property
	views        []domain.PropertyView
	reservations []domain.ReservationView
	searches     int
	lastFilter   domain.PropertyFilter
	lastLimit    int
	err          error
}

func (f *fakeRepo) GetUserWithEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, f.err
}

func (f *fakeRepo) GetUserWithID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, f.err
}

func (f *fakeRepo) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == nu.Email {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	u := domain.User{ID: int64(len(f.users) + 1), Name: nu.Name, Email: nu.Email, Password: nu.Password}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeRepo) GetAllProperties(ctx context.Context, pf domain.PropertyFilter, limit int) ([]domain.PropertyView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	f.lastFilter, f.lastLimit = pf, limit
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.PropertyView, len(f.views))
	copy(out, f.views)
	return out, nil
}

func (f *fakeRepo) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.props {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (f *fakeRepo) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Property{}, f.err
	}
	p := domain.Property{
		ID:           int64(len(f.props) + 1),
		OwnerID:      np.OwnerID,
		Title:        np.Title,
		CostPerNight: domain.DollarsToCents(np.CostPerNight),
		City:         np.City,
		Active:       true,
	}
	f.props = append(f.props, p)
	return p, nil
}

func (f *fakeRepo) GetAllReservations(ctx context.Context, guestID int64, limit int) ([]domain.ReservationView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	var out []domain.ReservationView
	for _, r := range f.reservations {
		if r.GuestID == guestID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeRepo) AddReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = int64(len(f.reservations) + 1)
	f.reservations = append(f.reservations, domain.ReservationView{Reservation: r})
	return r, nil
}

// fakeCache round-trips through JSON like the real adapters do.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeFeed struct {
	pages [][]map[string]any
}

func (f *fakeFeed) ListListings(ctx context.Context, page, size int) ([]map[string]any, error) {
	if page < 1 || page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func ptr[T any](v T) *T { return &v }
