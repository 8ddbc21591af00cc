package dialect

import (
	"fmt"
	"strings"
)

// Stage is a position in the canonical SQL clause pipeline. Appending a
// clause that belongs to an earlier stage than the fragment's current
// stage means the caller wants to apply a new operator "on top of"
// everything already built — the only way to express that in SQL is to
// wrap the fragment so far as a subquery and continue from there.
type Stage int

const (
	StageFrom Stage = iota
	StageJoin
	StageWhere
	StageGroup
	StageHaving
	StageOrder
	StageLimit
	StageSelect
	StageUnion
)

// Fragment incrementally builds one SELECT statement (plus any UNIONed
// siblings), automatically subquerying whenever a new clause would
// otherwise have to be inserted earlier in the clause order than
// something already appended.
type Fragment struct {
	dialect Dialect
	stage   Stage

	from    string
	joins   []string
	wheres  []string
	groups  []string
	havings []string
	orders  []string
	limit   *int
	offset  *int
	selects []string
	unions  []*Fragment

	aliasCounter *int
}

// NewFragment starts a fragment selecting from a table name or a
// caller-supplied subquery/source expression.
func NewFragment(d Dialect, from string) *Fragment {
	counter := 0
	return &Fragment{dialect: d, from: from, stage: StageFrom, aliasCounter: &counter}
}

// advance returns a fragment positioned to accept a clause for stage.
// If stage is behind where this fragment already is, the fragment is
// wrapped as a subquery and a fresh one is returned positioned at
// StageFrom (then recursed to reach the requested stage).
func (f *Fragment) advance(stage Stage) *Fragment {
	if stage >= f.stage {
		clone := *f
		clone.stage = stage
		return &clone
	}
	alias := fmt.Sprintf("t%d", *f.aliasCounter)
	*f.aliasCounter++
	wrapped := &Fragment{
		dialect:      f.dialect,
		from:         "(" + f.SQL() + ") AS " + f.dialect.QuoteIdentifier(alias),
		stage:        StageFrom,
		aliasCounter: f.aliasCounter,
	}
	return wrapped.advance(stage)
}

// Join appends a JOIN clause (already-rendered, e.g. "JOIN orders o ON
// o.id = c.order_id").
func (f *Fragment) Join(clause string) *Fragment {
	next := f.advance(StageJoin)
	next.joins = append(append([]string{}, next.joins...), clause)
	return next
}

// Where appends a WHERE predicate (AND-combined with any others).
func (f *Fragment) Where(predicate string) *Fragment {
	next := f.advance(StageWhere)
	next.wheres = append(append([]string{}, next.wheres...), predicate)
	return next
}

// Group appends a GROUP BY expression.
func (f *Fragment) Group(expr string) *Fragment {
	next := f.advance(StageGroup)
	next.groups = append(append([]string{}, next.groups...), expr)
	return next
}

// Having appends a HAVING predicate.
func (f *Fragment) Having(predicate string) *Fragment {
	next := f.advance(StageHaving)
	next.havings = append(append([]string{}, next.havings...), predicate)
	return next
}

// Order appends an ORDER BY expression (including any ASC/DESC suffix).
func (f *Fragment) Order(expr string) *Fragment {
	next := f.advance(StageOrder)
	next.orders = append(append([]string{}, next.orders...), expr)
	return next
}

// Limit sets LIMIT/OFFSET. A nil argument clears that half of the
// pair; callers that want to change only one of the two must read the
// current values back via LimitOffsetValues and pass the other one
// through unchanged.
func (f *Fragment) Limit(limit, offset *int) *Fragment {
	next := f.advance(StageLimit)
	next.limit, next.offset = limit, offset
	return next
}

// LimitOffsetValues returns the limit/offset currently set on this
// fragment, so a caller can change just one of the pair without
// clobbering the other.
func (f *Fragment) LimitOffsetValues() (limit, offset *int) {
	return f.limit, f.offset
}

// Select sets the projected column expressions, replacing any prior
// selection at this stage.
func (f *Fragment) Select(columns ...string) *Fragment {
	next := f.advance(StageSelect)
	next.selects = columns
	return next
}

// HasSelect reports whether a projection has already been set on this
// fragment, so a caller that builds its own select list (Calculate,
// Aggregate) doesn't get overwritten by a default "select every known
// column" pass downstream.
func (f *Fragment) HasSelect() bool { return len(f.selects) > 0 }

// Union appends another fragment's rows via UNION ALL.
func (f *Fragment) Union(other *Fragment) *Fragment {
	next := f.advance(StageUnion)
	next.unions = append(append([]*Fragment{}, f.unions...), other)
	return next
}

// SQL renders the fragment as a single SELECT statement.
func (f *Fragment) SQL() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(f.selects) == 0 {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(f.selects, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(f.from)
	for _, j := range f.joins {
		sb.WriteString(" ")
		sb.WriteString(j)
	}
	if len(f.wheres) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(f.wheres, " AND "))
	}
	if len(f.groups) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(f.groups, ", "))
	}
	if len(f.havings) > 0 {
		sb.WriteString(" HAVING ")
		sb.WriteString(strings.Join(f.havings, " AND "))
	}
	if len(f.orders) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(f.orders, ", "))
	}
	if lo := f.dialect.LimitOffset(f.limit, f.offset); lo != "" {
		sb.WriteString(" ")
		sb.WriteString(lo)
	}
	text := sb.String()
	for _, u := range f.unions {
		text += " UNION ALL " + u.SQL()
	}
	return text
}
