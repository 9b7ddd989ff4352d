package repository

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// MaxLimit caps an explicit page size.
const MaxLimit = 100

// Page is a limit/skip window over a sorted listing. A zero Limit means
// every match.
type Page struct {
	Limit int
	Skip  int
}

func (p Page) normalize() Page {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// apply adds LIMIT/OFFSET to q. mysql and sqlite reject OFFSET without
// LIMIT, so an unbounded page that skips rows uses the largest limit.
func (p Page) apply(q *gorm.DB) *gorm.DB {
	p = p.normalize()
	switch {
	case p.Limit > 0:
		q = q.Limit(p.Limit)
	case p.Skip > 0:
		q = q.Limit(math.MaxInt32)
	}
	if p.Skip > 0 {
		q = q.Offset(p.Skip)
	}
	return q
}

// likePattern builds a case-insensitive substring pattern for
// LIKE ... ESCAPE '!'.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
