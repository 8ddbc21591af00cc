package expr

import (
	"math"

	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// Reducer folds a list of per-group values into one result. Only
// Reducers flagged Associative are safe for the SQL transpiler to push
// down as a partial-then-final aggregation: reduce(a..z) must equal
// reduce(reduce(a..k), reduce(l..z)).
type Reducer struct {
	Name        string
	Associative bool
	Apply       func(values []value.Value) value.Value
}

// Reducers is the registry of aggregator reducers: the associative
// subset of Any-arity functions, plus the optional statistical
// reducers.
var Reducers = map[string]*Reducer{}

func registerReducer(r *Reducer) { Reducers[r.Name] = r }

func init() {
	registerReducer(&Reducer{Name: "sum", Associative: true, Apply: func(vs []value.Value) value.Value {
		var total float64
		for _, v := range vs {
			if f, ok := v.AsDouble(); ok {
				total += f
			}
		}
		return value.Double(total)
	}})
	registerReducer(&Reducer{Name: "count", Associative: true, Apply: func(vs []value.Value) value.Value {
		n := 0
		for _, v := range vs {
			if v.IsNumeric() {
				n++
			}
		}
		return value.Int(int64(n))
	}})
	registerReducer(&Reducer{Name: "countAll", Associative: true, Apply: func(vs []value.Value) value.Value {
		return value.Int(int64(len(vs)))
	}})
	registerReducer(&Reducer{Name: "average", Associative: true, Apply: func(vs []value.Value) value.Value {
		var total float64
		var n int
		for _, v := range vs {
			if f, ok := v.AsDouble(); ok {
				total += f
				n++
			}
		}
		if n == 0 {
			return value.Invalid()
		}
		return value.Double(total / float64(n))
	}})
	registerReducer(&Reducer{Name: "min", Associative: true, Apply: func(vs []value.Value) value.Value { return extreme(vs, -1) }})
	registerReducer(&Reducer{Name: "max", Associative: true, Apply: func(vs []value.Value) value.Value { return extreme(vs, 1) }})
	registerReducer(&Reducer{Name: "concat", Associative: true, Apply: func(vs []value.Value) value.Value {
		var sb []byte
		for _, v := range vs {
			sb = append(sb, v.AsString()...)
		}
		return value.String(string(sb))
	}})
	registerReducer(&Reducer{Name: "pack", Associative: true, Apply: func(vs []value.Value) value.Value {
		strs := make([]string, len(vs))
		for i, v := range vs {
			strs[i] = v.AsString()
		}
		return value.String(packStrings(strs))
	}})
	registerReducer(&Reducer{Name: "randomItem", Associative: true, Apply: func(vs []value.Value) value.Value {
		if len(vs) == 0 {
			return value.Invalid()
		}
		// reservoir-of-1: uniform pick, safe to combine partials by
		// re-picking uniformly with probability proportional to size,
		// which a plain `min(1, count)`-style partial model can't
		// express, so the raster evaluator always runs this reducer
		// over the full per-group list rather than merging partials.
		return vs[randIntn(len(vs))]
	}})
	registerReducer(&Reducer{Name: "stddevPop", Associative: false, Apply: func(vs []value.Value) value.Value { return stddev(vs, false) }})
	registerReducer(&Reducer{Name: "stddevSamp", Associative: false, Apply: func(vs []value.Value) value.Value { return stddev(vs, true) }})
	registerReducer(&Reducer{Name: "variancePop", Associative: false, Apply: func(vs []value.Value) value.Value { return variance(vs, false) }})
	registerReducer(&Reducer{Name: "varianceSamp", Associative: false, Apply: func(vs []value.Value) value.Value { return variance(vs, true) }})
}

func extreme(vs []value.Value, want int) value.Value {
	var best value.Value
	have := false
	for _, v := range vs {
		if v.IsInvalid() {
			continue
		}
		if !have || v.Compare(best) == want {
			best = v
			have = true
		}
	}
	if !have {
		return value.Invalid()
	}
	return best
}

func variance(vs []value.Value, sample bool) value.Value {
	var nums []float64
	for _, v := range vs {
		if f, ok := v.AsDouble(); ok {
			nums = append(nums, f)
		}
	}
	n := len(nums)
	if n == 0 || (sample && n < 2) {
		return value.Invalid()
	}
	var mean float64
	for _, f := range nums {
		mean += f
	}
	mean /= float64(n)
	var sq float64
	for _, f := range nums {
		d := f - mean
		sq += d * d
	}
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return value.Double(sq / denom)
}

func stddev(vs []value.Value, sample bool) value.Value {
	v := variance(vs, sample)
	if v.IsInvalid() {
		return value.Invalid()
	}
	f, _ := v.AsDouble()
	return value.Double(math.Sqrt(f))
}

// Aggregation binds a map expression and a reduce Function to a
// target column, per the data model: a group's values for this
// target are `map(row)` evaluated per row, then folded by `reduce`.
type Aggregation struct {
	Map    Expression
	Reduce *Reducer
	Target table.Column
}

// Order is one key of a sort specification: an expression, a sort
// direction, and whether comparison should be numeric (coercing both
// sides) or the Value domain's default total order.
type Order struct {
	Expression Expression
	Ascending  bool
	Numeric    bool
}

// Compare orders two evaluated values per this Order's direction and
// numeric-ness.
func (o Order) Compare(a, b value.Value) int {
	var c int
	if o.Numeric {
		af, aok := a.AsDouble()
		bf, bok := b.AsDouble()
		switch {
		case aok && bok:
			c = cmpFloat64(af, bf)
		default:
			c = a.Compare(b)
		}
	} else {
		c = a.Compare(b)
	}
	if !o.Ascending {
		c = -c
	}
	return c
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
