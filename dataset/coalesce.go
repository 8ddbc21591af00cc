package dataset

import (
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/job"
	"github.com/pixelspark/warp/stream"
	"github.com/pixelspark/warp/table"
)

// Coalesced wraps a Dataset and fuses adjacent deferred operator
// invocations before they reach the wrapped backend, per the algebraic
// identities:
//
//	filter(p1).filter(p2)        == filter(p1 and p2)
//	select(a).select(b)          == select(a ∩ b, in a's order)
//	limit(x).limit(y)             == limit(min(x, y))
//	offset(x).offset(y)           == offset(x + y)
//	distinct(c).distinct(c)       == distinct(c)
//	sort(o1).sort(o2)             == sort(o2 primary, o1 as tie-break)
//	calculate(c1).calculate(c2)   == calculate(c1, c2) batched into one flush
//	transpose().transpose()       == identity
//	calculate(c, f).filter(p)     == filter(p).calculate(c, f)   when p doesn't read c
//
// Fusing filter/filter and select/select lets a SQL backend push a
// single WHERE clause or column list instead of nesting a subquery per
// call. Fusing a calculate ahead of an unrelated filter lets a backend
// that can express the calculation but would otherwise have to nest a
// subquery just to filter past it skip the extra layer. Every operator
// not named above simply flushes whatever is pending and delegates
// straight through; the calculate/filter pair is the only one allowed
// to reorder relative to arrival order, and only when doing so
// provably can't change the result.
type Coalesced struct {
	inner Dataset

	pendingPred      expr.Expression // nil if none pending
	pendingSel       *table.Columns  // nil if none pending
	pendingCalc      []calcOp        // empty if none pending
	pendingLimit     *int            // nil if none pending
	pendingOffset    *int            // nil if none pending
	pendingDistinct  *table.Columns  // nil if none pending
	pendingSort      []expr.Order    // empty if none pending
	pendingTranspose bool
}

type calcOp struct {
	target  table.Column
	formula expr.Expression
}

// Coalesce wraps a Dataset so its operator chain is fused where safe.
func Coalesce(d Dataset) *Coalesced {
	return &Coalesced{inner: d}
}

// flush applies every pending operator to inner and returns the plain
// (un-coalesced) result. Filter is applied ahead of any pending
// calculate so the calculate/filter reorder axiom holds for whichever
// predicates were judged safe to carry past the calculate; everything
// else follows the usual filter → calculate → select → distinct →
// sort → transpose → limit → offset clause order.
func (c *Coalesced) flush() Dataset {
	d := c.inner
	if c.pendingPred != nil {
		d = d.Filter(c.pendingPred)
	}
	for _, op := range c.pendingCalc {
		d = d.Calculate(op.target, op.formula)
	}
	if c.pendingSel != nil {
		d = d.Select(*c.pendingSel)
	}
	if c.pendingDistinct != nil {
		d = d.Distinct(*c.pendingDistinct)
	}
	if len(c.pendingSort) > 0 {
		d = d.Sort(c.pendingSort)
	}
	if c.pendingTranspose {
		d = d.Transpose()
	}
	if c.pendingLimit != nil {
		d = d.Limit(*c.pendingLimit)
	}
	if c.pendingOffset != nil {
		d = d.Offset(*c.pendingOffset)
	}
	return d
}

// hasNonPredNonCalcPending reports whether anything besides a pending
// predicate or pending calculate list is queued — the condition under
// which Filter and Calculate must flush rather than fuse, since none
// of the other pending kinds is safe to reorder past.
func (c *Coalesced) hasNonPredNonCalcPending() bool {
	return c.pendingSel != nil || c.pendingLimit != nil || c.pendingOffset != nil ||
		c.pendingDistinct != nil || len(c.pendingSort) > 0 || c.pendingTranspose
}

func mergePred(existing, next expr.Expression) expr.Expression {
	if existing == nil {
		return next
	}
	return expr.Call{Name: "and", Args: []expr.Expression{existing, next}}
}

func (c *Coalesced) Filter(predicate expr.Expression) Dataset {
	if c.hasNonPredNonCalcPending() {
		return Coalesce(c.flush()).Filter(predicate)
	}
	if len(c.pendingCalc) > 0 {
		deps := expr.SiblingDependencies(predicate)
		for _, op := range c.pendingCalc {
			if deps.Has(op.target) {
				// the filter reads a calculated column: it cannot move
				// ahead of the calculate that produces it.
				return Coalesce(c.flush()).Filter(predicate)
			}
		}
		return &Coalesced{inner: c.inner, pendingPred: mergePred(c.pendingPred, predicate), pendingCalc: c.pendingCalc}
	}
	return &Coalesced{inner: c.inner, pendingPred: mergePred(c.pendingPred, predicate)}
}

func (c *Coalesced) Calculate(target table.Column, formula expr.Expression) Dataset {
	if c.hasNonPredNonCalcPending() {
		return Coalesce(c.flush()).Calculate(target, formula)
	}
	calc := append(append([]calcOp{}, c.pendingCalc...), calcOp{target: target, formula: formula})
	return &Coalesced{inner: c.inner, pendingPred: c.pendingPred, pendingCalc: calc}
}

func (c *Coalesced) Select(columns table.Columns) Dataset {
	if len(c.pendingCalc) > 0 || c.pendingLimit != nil || c.pendingOffset != nil ||
		c.pendingDistinct != nil || len(c.pendingSort) > 0 || c.pendingTranspose {
		return Coalesce(c.flush()).Select(columns)
	}
	if c.pendingSel == nil {
		return &Coalesced{inner: c.inner, pendingPred: c.pendingPred, pendingSel: &columns}
	}
	fused := c.pendingSel.Intersect(columns)
	return &Coalesced{inner: c.inner, pendingPred: c.pendingPred, pendingSel: &fused}
}

func (c *Coalesced) Limit(n int) Dataset {
	// a pending offset must run before this limit, and flush applies
	// limit ahead of offset, so it is flushed rather than carried.
	if c.pendingPred != nil || c.pendingSel != nil || len(c.pendingCalc) > 0 || c.pendingOffset != nil ||
		c.pendingDistinct != nil || len(c.pendingSort) > 0 || c.pendingTranspose {
		return Coalesce(c.flush()).Limit(n)
	}
	if c.pendingLimit == nil {
		return &Coalesced{inner: c.inner, pendingLimit: &n, pendingOffset: c.pendingOffset}
	}
	fused := minInt(*c.pendingLimit, n)
	return &Coalesced{inner: c.inner, pendingLimit: &fused, pendingOffset: c.pendingOffset}
}

func (c *Coalesced) Offset(n int) Dataset {
	if c.pendingPred != nil || c.pendingSel != nil || len(c.pendingCalc) > 0 ||
		c.pendingDistinct != nil || len(c.pendingSort) > 0 || c.pendingTranspose {
		return Coalesce(c.flush()).Offset(n)
	}
	if c.pendingOffset == nil {
		return &Coalesced{inner: c.inner, pendingOffset: &n, pendingLimit: c.pendingLimit}
	}
	fused := *c.pendingOffset + n
	return &Coalesced{inner: c.inner, pendingOffset: &fused, pendingLimit: c.pendingLimit}
}

func (c *Coalesced) Distinct(columns table.Columns) Dataset {
	if c.pendingPred != nil || c.pendingSel != nil || len(c.pendingCalc) > 0 ||
		c.pendingLimit != nil || c.pendingOffset != nil || len(c.pendingSort) > 0 || c.pendingTranspose {
		return Coalesce(c.flush()).Distinct(columns)
	}
	if c.pendingDistinct != nil && columnsEqual(*c.pendingDistinct, columns) {
		return c
	}
	if c.pendingDistinct != nil {
		return Coalesce(c.flush()).Distinct(columns)
	}
	return &Coalesced{inner: c.inner, pendingDistinct: &columns}
}

func (c *Coalesced) Sort(orders []expr.Order) Dataset {
	if c.pendingPred != nil || c.pendingSel != nil || len(c.pendingCalc) > 0 ||
		c.pendingLimit != nil || c.pendingOffset != nil || c.pendingDistinct != nil || c.pendingTranspose {
		return Coalesce(c.flush()).Sort(orders)
	}
	if len(c.pendingSort) == 0 {
		return &Coalesced{inner: c.inner, pendingSort: orders}
	}
	// stable-sort composition: the new sort is primary, the old one
	// breaks ties, matching what two sequential stable sorts produce.
	composed := append(append([]expr.Order{}, orders...), c.pendingSort...)
	return &Coalesced{inner: c.inner, pendingSort: composed}
}

func (c *Coalesced) Transpose() Dataset {
	if c.pendingPred != nil || c.pendingSel != nil || len(c.pendingCalc) > 0 ||
		c.pendingLimit != nil || c.pendingOffset != nil || c.pendingDistinct != nil || len(c.pendingSort) > 0 {
		return Coalesce(c.flush()).Transpose()
	}
	return &Coalesced{inner: c.inner, pendingTranspose: !c.pendingTranspose}
}

func (c *Coalesced) Random(k int) Dataset      { return Coalesce(c.flush().Random(k)) }
func (c *Coalesced) Flatten(col table.Column) Dataset { return Coalesce(c.flush().Flatten(col)) }
func (c *Coalesced) Aggregate(groupBy table.Columns, aggs []expr.Aggregation) Dataset {
	return Coalesce(c.flush().Aggregate(groupBy, aggs))
}
func (c *Coalesced) Join(other Dataset, lk, rk table.Column, kind JoinKind) Dataset {
	return Coalesce(c.flush().Join(other, lk, rk, kind))
}
func (c *Coalesced) Union(other Dataset) Dataset { return Coalesce(c.flush().Union(other)) }
func (c *Coalesced) Pivot(rowCol, pivotCol, valCol table.Column, r *expr.Reducer) Dataset {
	return Coalesce(c.flush().Pivot(rowCol, pivotCol, valCol, r))
}

func (c *Coalesced) Columns(j *job.Job) (table.Columns, error) { return c.flush().Columns(j) }
func (c *Coalesced) Raster(j *job.Job) (*table.Raster, error)  { return c.flush().Raster(j) }
func (c *Coalesced) Stream(j *job.Job) (stream.Stream, error)  { return c.flush().Stream(j) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func columnsEqual(a, b table.Columns) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !a.At(i).Equal(b.At(i)) {
			return false
		}
	}
	return true
}
