package mysql

import (
	"strings"

	"lightbnb/internal/domain"
)

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type clause struct {
	pred string
	arg  any
}

// PropertySearch accumulates the filtered listing query. Each predicate is
// stored with its argument; text and args are rendered together in Build,
// so placeholder order always matches argument order.
type PropertySearch struct {
	where  []clause
	having []clause
	limit  int
}

// NewPropertySearch applies the present filters in a fixed order: city,
// owner, minimum price, maximum price, then minimum rating after grouping.
// Prices are converted from dollars to cents before binding.
func NewPropertySearch(f domain.PropertyFilter, limit int) *PropertySearch {
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	q := &PropertySearch{limit: limit}

	if f.City != nil {
		// case-sensitive substring match regardless of column collation
		q.Where("p.city COLLATE utf8mb4_bin LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(*f.City)+"%")
	}
	if f.OwnerID != nil {
		q.Where("p.owner_id = ?", *f.OwnerID)
	}
	if f.MinPricePerNight != nil {
		q.Where("p.cost_per_night >= ?", domain.DollarsToCents(*f.MinPricePerNight))
	}
	if f.MaxPricePerNight != nil {
		q.Where("p.cost_per_night <= ?", domain.DollarsToCents(*f.MaxPricePerNight))
	}
	if f.MinRating != nil {
		q.Having("AVG(pr.rating) >= ?", *f.MinRating)
	}
	return q
}

func (q *PropertySearch) Where(pred string, arg any) *PropertySearch {
	q.where = append(q.where, clause{pred: pred, arg: arg})
	return q
}

func (q *PropertySearch) Having(pred string, arg any) *PropertySearch {
	q.having = append(q.having, clause{pred: pred, arg: arg})
	return q
}

// Build renders the command text and its ordered args. The limit is always
// the last arg.
func (q *PropertySearch) Build() (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(q.where)+len(q.having)+1)

	b.WriteString(searchPropertiesBaseSQL)
	for _, c := range q.where {
		b.WriteString("\n  AND ")
		b.WriteString(c.pred)
		args = append(args, c.arg)
	}

	b.WriteString(searchPropertiesGroupBy)
	for i, c := range q.having {
		if i == 0 {
			b.WriteString("\nHAVING ")
		} else {
			b.WriteString("\n  AND ")
		}
		b.WriteString(c.pred)
		args = append(args, c.arg)
	}

	b.WriteString(searchPropertiesOrderLimit)
	args = append(args, q.limit)
	return b.String(), args
}
