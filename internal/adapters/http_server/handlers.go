// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

const (
	maxListLimit = 100
	maxBodyBytes = 1 << 20
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/properties", h.getProperties)
		r.Post("/properties", h.addProperty)

		r.Post("/users", h.register)
		r.Post("/users/login", h.login)
		r.Get("/users/{id}", h.getUser)
		r.Get("/users/{id}/reservations", h.getReservations)
		r.Post("/users/{id}/reservations", h.addReservation)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors to problems. Anything unrecognised is logged
// and reported as a 500 without leaking the cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCachedJSON answers 304 when the client already holds this version.
func writeCachedJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be valid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return 0, false
	}
	return id, true
}

func (h *Handlers) getProperties(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	f, err := domain.ParsePropertyFilter(domain.FilterInput{
		City:             qs.Get("city"),
		OwnerID:          qs.Get("owner_id"),
		MinPricePerNight: qs.Get("minimum_price_per_night"),
		MaxPricePerNight: qs.Get("maximum_price_per_night"),
		MinRating:        qs.Get("minimum_rating"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := domain.ParseLimit(qs.Get("limit"), domain.DefaultLimit, maxListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := h.Q.SearchProperties(r.Context(), f, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCachedJSON(w, r, map[string]any{"properties": out})
}

func (h *Handlers) addProperty(w http.ResponseWriter, r *http.Request) {
	var np domain.NewProperty
	if !decodeBody(w, r, &np) {
		return
	}
	p, err := h.C.AddProperty(r.Context(), np)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var nu domain.NewUser
	if !decodeBody(w, r, &nu) {
		return
	}
	u, err := h.C.RegisterUser(r.Context(), nu)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := h.C.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Q.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCachedJSON(w, r, u)
}

func (h *Handlers) getReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, err := domain.ParseLimit(r.URL.Query().Get("limit"), domain.DefaultLimit, maxListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Q.GetReservations(r.Context(), id, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCachedJSON(w, r, map[string]any{"reservations": out})
}

func (h *Handlers) addReservation(w http.ResponseWriter, r *http.Request) {
	guestID, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		PropertyID int64  `json:"property_id"`
		StartDate  string `json:"start_date"` // YYYY-MM-DD
		EndDate    string `json:"end_date"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	start, err1 := time.Parse(time.DateOnly, body.StartDate)
	end, err2 := time.Parse(time.DateOnly, body.EndDate)
	if err1 != nil || err2 != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid input", "start_date and end_date must be YYYY-MM-DD")
		return
	}
	res, err := h.C.AddReservation(r.Context(), domain.Reservation{
		GuestID:    guestID,
		PropertyID: body.PropertyID,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
