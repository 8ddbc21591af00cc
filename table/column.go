// Package table holds Warp's tabular container types: Column, the
// ordered Columns set, Row, and the in-memory Raster. These are
// the leaf types every other package (expr, stream, dataset, inmem,
// sqldataset) builds on.
package table

import "strings"

// Column is a case-retaining identifier: its original casing is kept
// for display, but equality and hashing are case-insensitive.
type Column string

// Equal compares two columns case-insensitively.
func (c Column) Equal(other Column) bool {
	return strings.EqualFold(string(c), string(other))
}

func (c Column) key() string {
	return strings.ToLower(string(c))
}

// Columns is an ordered set of Column: it carries both sequence and
// membership, matching the data model's "ordered set of Columns".
type Columns struct {
	order []Column
	index map[string]int
}

// NewColumns builds a Columns set from a sequence, keeping the first
// occurrence's order and casing when duplicates collide case-insensitively.
func NewColumns(cols ...Column) Columns {
	cs := Columns{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		cs.Add(c)
	}
	return cs
}

// Add appends a column if not already present (case-insensitively);
// returns its index.
func (cs *Columns) Add(c Column) int {
	if cs.index == nil {
		cs.index = make(map[string]int)
	}
	if i, ok := cs.index[c.key()]; ok {
		return i
	}
	i := len(cs.order)
	cs.order = append(cs.order, c)
	cs.index[c.key()] = i
	return i
}

// IndexOf returns the position of c, or -1. O(1) via the backing map,
// so large projections don't degrade to a linear scan per column.
func (cs Columns) IndexOf(c Column) int {
	if cs.index == nil {
		return -1
	}
	i, ok := cs.index[c.key()]
	if !ok {
		return -1
	}
	return i
}

func (cs Columns) Has(c Column) bool { return cs.IndexOf(c) >= 0 }

func (cs Columns) Len() int { return len(cs.order) }

func (cs Columns) At(i int) Column { return cs.order[i] }

func (cs Columns) Slice() []Column {
	out := make([]Column, len(cs.order))
	copy(out, cs.order)
	return out
}

// Intersect returns the columns of cs that also appear in other,
// preserving cs's order — used by Coalesced select-fusion
// (`select(a ∩ b in a-order; d)`).
func (cs Columns) Intersect(other Columns) Columns {
	var out Columns
	for _, c := range cs.order {
		if other.Has(c) {
			out.Add(c)
		}
	}
	return out
}

// Union returns cs's columns followed by any of other's columns not
// already present — used by the union operator's schema merge.
func (cs Columns) Union(other Columns) Columns {
	out := NewColumns(cs.order...)
	for _, c := range other.order {
		out.Add(c)
	}
	return out
}

// Clone copies cs's backing order slice and index map, so Add on the
// result cannot mutate cs — needed because Columns is a value type
// whose index map is otherwise shared across a plain struct copy.
func (cs Columns) Clone() Columns {
	out := Columns{order: append([]Column{}, cs.order...), index: make(map[string]int, len(cs.index))}
	for k, v := range cs.index {
		out.index[k] = v
	}
	return out
}
