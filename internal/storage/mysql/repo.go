package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
)

const errDupEntry = 1062

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isDuplicate(err error) bool {
	var me *mysqldrv.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}

// observe records one statement; use it deferred with a named error return.
func observe(op string, start time.Time, errp *error) {
	observability.ObserveQuery(op, *errp, time.Since(start))
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Repo runs every statement on a pool owned by the caller.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

func (r *Repo) GetUserWithEmail(ctx context.Context, email string) (u *domain.User, err error) {
	defer observe("get_user_with_email", time.Now(), &err)
	u, err = r.getUser(ctx, getUserWithEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("get user with email: %w", err)
	}
	return u, nil
}

func (r *Repo) GetUserWithID(ctx context.Context, id int64) (u *domain.User, err error) {
	defer observe("get_user_with_id", time.Now(), &err)
	u, err = r.getUser(ctx, getUserWithIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("get user with id: %w", err)
	}
	return u, nil
}

func (r *Repo) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) AddUser(ctx context.Context, nu domain.NewUser) (u domain.User, err error) {
	defer observe("add_user", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, insertUserSQL, nu.Name, nu.Email, nu.Password)
	if err != nil {
		if isDuplicate(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, fmt.Errorf("add user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("add user: %w", err)
	}
	return domain.User{ID: id, Name: nu.Name, Email: nu.Email, Password: nu.Password}, nil
}

// -----------------------------------------------------------------------------
// PROPERTIES
// -----------------------------------------------------------------------------

// scanProperty reads the columns listed in propertyColumns, followed by any
// extra destinations.
func scanProperty(s rowScanner, p *domain.Property, extra ...any) error {
	var desc, thumb, cover sql.NullString
	dest := []any{
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&desc,
		&thumb,
		&cover,
		&p.CostPerNight,
		&p.ParkingSpaces,
		&p.NumberOfBathrooms,
		&p.NumberOfBedrooms,
		&p.Country,
		&p.Street,
		&p.City,
		&p.Province,
		&p.PostCode,
		&p.Active,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	p.Description = desc.String
	p.ThumbnailPhotoURL = thumb.String
	p.CoverPhotoURL = cover.String
	return nil
}

func (r *Repo) GetProperty(ctx context.Context, id int64) (p domain.Property, err error) {
	defer observe("get_property", time.Now(), &err)
	if err = scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// AddProperty stores CostPerNight in cents and returns the stored row.
func (r *Repo) AddProperty(ctx context.Context, np domain.NewProperty) (p domain.Property, err error) {
	defer observe("add_property", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, insertPropertySQL,
		np.OwnerID,
		np.Title,
		valStr(np.Description),
		valStr(np.ThumbnailPhotoURL),
		valStr(np.CoverPhotoURL),
		domain.DollarsToCents(np.CostPerNight),
		np.Street,
		np.City,
		np.Province,
		np.PostCode,
		np.Country,
		np.ParkingSpaces,
		np.NumberOfBathrooms,
		np.NumberOfBedrooms,
	)
	if err != nil {
		return domain.Property{}, fmt.Errorf("add property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Property{}, fmt.Errorf("add property: %w", err)
	}
	if err = scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id), &p); err != nil {
		return domain.Property{}, fmt.Errorf("add property: read back %d: %w", id, err)
	}
	return p, nil
}

// GetAllProperties returns rows as stored: CostPerNight stays in cents.
func (r *Repo) GetAllProperties(ctx context.Context, f domain.PropertyFilter, limit int) (out []domain.PropertyView, err error) {
	defer observe("get_all_properties", time.Now(), &err)
	query, args := NewPropertySearch(f, limit).Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get all properties: %w", err)
	}
	defer rows.Close()

	out = []domain.PropertyView{}
	for rows.Next() {
		var pv domain.PropertyView
		var avg sql.NullFloat64
		if err = scanProperty(rows, &pv.Property, &avg); err != nil {
			return nil, fmt.Errorf("get all properties: %w", err)
		}
		if avg.Valid {
			a := avg.Float64
			pv.AverageRating = &a
		}
		out = append(out, pv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("get all properties: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// RESERVATIONS
// -----------------------------------------------------------------------------

func (r *Repo) GetAllReservations(ctx context.Context, guestID int64, limit int) (out []domain.ReservationView, err error) {
	defer observe("get_all_reservations", time.Now(), &err)
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	rows, err := r.db.QueryContext(ctx, getAllReservationsSQL, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("get all reservations: %w", err)
	}
	defer rows.Close()

	out = []domain.ReservationView{}
	for rows.Next() {
		var rv domain.ReservationView
		var avg sql.NullFloat64
		if err = scanReservationView(rows, &rv, &avg); err != nil {
			return nil, fmt.Errorf("get all reservations: %w", err)
		}
		if avg.Valid {
			a := avg.Float64
			rv.AverageRating = &a
		}
		out = append(out, rv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("get all reservations: %w", err)
	}
	return out, nil
}

func scanReservationView(rows *sql.Rows, rv *domain.ReservationView, avg *sql.NullFloat64) error {
	// reservation columns come first, then the property block, then the average
	prefix := []any{&rv.ID, &rv.GuestID, &rv.PropertyID, &rv.StartDate, &rv.EndDate}
	return scanProperty(prefixScanner{rows: rows, prefix: prefix}, &rv.Property, avg)
}

// prefixScanner prepends destinations so scanProperty can be reused for
// queries that select other columns before the property block.
type prefixScanner struct {
	rows   rowScanner
	prefix []any
}

func (s prefixScanner) Scan(dest ...any) error {
	return s.rows.Scan(append(append([]any{}, s.prefix...), dest...)...)
}

func (r *Repo) AddReservation(ctx context.Context, in domain.Reservation) (out domain.Reservation, err error) {
	defer observe("add_reservation", time.Now(), &err)
	res, err := r.db.ExecContext(ctx, insertReservationSQL,
		in.GuestID,
		in.PropertyID,
		in.StartDate.Format(time.DateOnly),
		in.EndDate.Format(time.DateOnly),
	)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("add reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("add reservation: %w", err)
	}
	err = r.db.QueryRowContext(ctx, getReservationSQL, id).
		Scan(&out.ID, &out.GuestID, &out.PropertyID, &out.StartDate, &out.EndDate)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("add reservation: read back %d: %w", id, err)
	}
	return out, nil
}
