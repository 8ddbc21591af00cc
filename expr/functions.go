package expr

import (
	"math"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pixelspark/warp/value"
)

// rng backs the nondeterministic functions (now/random/randomBetween/
// randomItem/randomString). Swappable for deterministic tests via
// SetRand, the same injectable-RNG pattern used by the statistical
// samplers in package job.
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// SetRand installs a deterministic RNG for tests.
func SetRand(r *rand.Rand) {
	rngMu.Lock()
	rng = r
	rngMu.Unlock()
}

func randFloat() float64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Float64()
}

func randIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}

// ---- small arg-coercion helpers ----

func num1(args []value.Value) (float64, bool) { return args[0].AsDouble() }
func num2(args []value.Value) (float64, float64, bool) {
	a, ok1 := args[0].AsDouble()
	b, ok2 := args[1].AsDouble()
	return a, b, ok1 && ok2
}

func numeric1(name string, f func(float64) float64) *Function {
	return &Function{Name: name, Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		x, ok := num1(args)
		if !ok {
			return value.Invalid()
		}
		return value.Double(f(x))
	}}
}

func init() {
	for _, f := range []*Function{
		numeric1("abs", math.Abs),
		numeric1("negate", func(x float64) float64 { return -x }),
		numeric1("sqrt", func(x float64) float64 {
			if x < 0 {
				return math.NaN()
			}
			return math.Sqrt(x)
		}),
		numeric1("cos", math.Cos), numeric1("sin", math.Sin), numeric1("tan", math.Tan),
		numeric1("cosh", math.Cosh), numeric1("sinh", math.Sinh), numeric1("tanh", math.Tanh),
		numeric1("acos", math.Acos), numeric1("asin", math.Asin), numeric1("atan", math.Atan),
		numeric1("exp", math.Exp),
		numeric1("ln", func(x float64) float64 {
			if x <= 0 {
				return math.NaN()
			}
			return math.Log(x)
		}),
		numeric1("ceiling", math.Ceil),
		numeric1("floor", math.Floor),
		numeric1("sign", func(x float64) float64 {
			switch {
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return 0
			}
		}),
	} {
		register(f)
	}

	register(&Function{Name: "identity", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return args[0]
	}})

	register(&Function{Name: "power", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Pow(args[0], args[1])
	}})

	register(&Function{Name: "log", Arity: Between(1, 2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		x, ok := num1(args)
		if !ok || x <= 0 {
			return value.Invalid()
		}
		if len(args) == 1 {
			return value.Double(math.Log10(x))
		}
		base, ok2 := args[1].AsDouble()
		if !ok2 || base <= 0 || base == 1 {
			return value.Invalid()
		}
		return value.Double(math.Log(x) / math.Log(base))
	}})

	register(&Function{Name: "round", Arity: Between(1, 2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		x, ok := num1(args)
		if !ok {
			return value.Invalid()
		}
		digits := 0.0
		if len(args) == 2 {
			d, ok2 := args[1].AsDouble()
			if !ok2 {
				return value.Invalid()
			}
			digits = d
		}
		scale := math.Pow(10, digits)
		return value.Double(math.Round(x*scale) / scale)
	}})

	register(&Function{Name: "and", Arity: Any(), Deterministic: true, Apply: boolReduce(func(acc, v bool) bool { return acc && v }, true)})
	register(&Function{Name: "or", Arity: Any(), Deterministic: true, Apply: boolReduce(func(acc, v bool) bool { return acc || v }, false)})
	register(&Function{Name: "xor", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		count := 0
		for _, a := range args {
			b, ok := a.AsBool()
			if !ok {
				return value.Invalid()
			}
			if b {
				count++
			}
		}
		return value.Bool(count%2 == 1)
	}})
	register(&Function{Name: "not", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		b, ok := args[0].AsBool()
		if !ok {
			return value.Invalid()
		}
		return value.Bool(!b)
	}})
	register(&Function{Name: "if", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		b, ok := args[0].AsBool()
		if !ok {
			return value.Invalid()
		}
		if b {
			return args[1]
		}
		return args[2]
	}})
	register(&Function{Name: "iferror", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		if args[0].IsInvalid() {
			return args[1]
		}
		return args[0]
	}})
	register(&Function{Name: "coalesce", Arity: AtLeast(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		for _, a := range args {
			if !a.IsInvalid() && !a.IsEmpty() {
				return a
			}
		}
		return value.Empty()
	}})

	register(&Function{Name: "concat", Arity: AtLeast(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		var sb strings.Builder
		for _, a := range args {
			if a.IsInvalid() {
				return value.Invalid()
			}
			sb.WriteString(a.AsString())
		}
		return value.String(sb.String())
	}})

	register(&Function{Name: "upper", Arity: Fixed(1), Deterministic: true, Apply: stringMap(strings.ToUpper)})
	register(&Function{Name: "lower", Arity: Fixed(1), Deterministic: true, Apply: stringMap(strings.ToLower)})
	register(&Function{Name: "trim", Arity: Fixed(1), Deterministic: true, Apply: stringMap(strings.TrimSpace)})
	register(&Function{Name: "capitalize", Arity: Fixed(1), Deterministic: true, Apply: stringMap(capitalize)})
	register(&Function{Name: "urlencode", Arity: Fixed(1), Deterministic: true, Apply: stringMap(url.QueryEscape)})

	register(&Function{Name: "length", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Int(int64(len([]rune(args[0].AsString()))))
	}})

	register(&Function{Name: "left", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		n, ok := args[1].AsInt()
		if !ok {
			return value.Invalid()
		}
		r := []rune(args[0].AsString())
		if n < 0 {
			n = 0
		}
		if int(n) > len(r) {
			n = int64(len(r))
		}
		return value.String(string(r[:n]))
	}})
	register(&Function{Name: "right", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		n, ok := args[1].AsInt()
		if !ok {
			return value.Invalid()
		}
		r := []rune(args[0].AsString())
		if n < 0 {
			n = 0
		}
		if int(n) > len(r) {
			n = int64(len(r))
		}
		return value.String(string(r[len(r)-int(n):]))
	}})
	register(&Function{Name: "mid", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		start, ok1 := args[1].AsInt()
		length, ok2 := args[2].AsInt()
		if !ok1 || !ok2 {
			return value.Invalid()
		}
		r := []rune(args[0].AsString())
		i := int(start) - 1 // 1-based
		if i < 0 {
			i = 0
		}
		if i >= len(r) {
			return value.String("")
		}
		end := i + int(length)
		if end > len(r) || length < 0 {
			end = len(r)
		}
		return value.String(string(r[i:end]))
	}})

	register(&Function{Name: "substitute", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.String(strings.ReplaceAll(args[0].AsString(), args[1].AsString(), args[2].AsString()))
	}})

	register(&Function{Name: "levenshtein", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Int(int64(levenshtein(args[0].AsString(), args[1].AsString())))
	}})

	register(&Function{Name: "regexSubstitute", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		re, err := regexp.Compile(args[1].AsString())
		if err != nil {
			return value.Invalid()
		}
		return value.String(re.ReplaceAllString(args[0].AsString(), args[2].AsString()))
	}})

	register(&Function{Name: "in", Arity: AtLeast(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Bool(memberOf(args[0], args[1:]))
	}})
	register(&Function{Name: "notIn", Arity: AtLeast(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Bool(!memberOf(args[0], args[1:]))
	}})
	register(&Function{Name: "choose", Arity: AtLeast(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		i, ok := args[0].AsInt()
		if !ok || i < 1 || int(i) >= len(args) {
			return value.Invalid()
		}
		return args[i]
	}})

	register(&Function{Name: "pack", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		strs := make([]string, len(args))
		for i, a := range args {
			strs[i] = a.AsString()
		}
		return value.String(packStrings(strs))
	}})
	register(&Function{Name: "items", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.String(args[0].AsString()) // items() used via Reducer in agg; scalar form returns the pack unchanged for composition
	}})
	register(&Function{Name: "nth", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		items := unpackString(args[0].AsString())
		i, ok := args[1].AsInt()
		if !ok || i < 1 || int(i) > len(items) {
			return value.Invalid()
		}
		return value.String(items[i-1])
	}})
	register(&Function{Name: "split", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		parts := strings.Split(args[0].AsString(), args[1].AsString())
		return value.String(packStrings(parts))
	}})

	register(&Function{Name: "count", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		n := 0
		for _, a := range args {
			if a.IsNumeric() {
				n++
			}
		}
		return value.Int(int64(n))
	}})
	register(&Function{Name: "countAll", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Int(int64(len(args)))
	}})
	register(&Function{Name: "sum", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		var total float64
		for _, a := range args {
			if f, ok := a.AsDouble(); ok {
				total += f
			}
		}
		return value.Double(total)
	}})
	register(&Function{Name: "average", Arity: Any(), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		var total float64
		var n int
		for _, a := range args {
			if f, ok := a.AsDouble(); ok {
				total += f
				n++
			}
		}
		if n == 0 {
			return value.Invalid()
		}
		return value.Double(total / float64(n))
	}})
	register(&Function{Name: "min", Arity: AtLeast(1), Deterministic: true, Apply: minMaxFunc(-1)})
	register(&Function{Name: "max", Arity: AtLeast(1), Deterministic: true, Apply: minMaxFunc(1)})

	register(&Function{Name: "normalInverse", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		p, mean, stddev, ok := num3(args)
		if !ok || p <= 0 || p >= 1 {
			return value.Invalid()
		}
		return value.Double(mean + stddev*probit(p))
	}})

	register(&Function{Name: "now", Arity: Fixed(0), Deterministic: false, Apply: func(_ Context, args []value.Value) value.Value {
		return value.DateFromTime(time.Now())
	}})
	register(&Function{Name: "random", Arity: Fixed(0), Deterministic: false, Apply: func(_ Context, args []value.Value) value.Value {
		return value.Double(randFloat())
	}})
	register(&Function{Name: "randomBetween", Arity: Fixed(2), Deterministic: false, Apply: func(_ Context, args []value.Value) value.Value {
		lo, hi, ok := num2(args)
		if !ok {
			return value.Invalid()
		}
		return value.Double(lo + randFloat()*(hi-lo))
	}})
	register(&Function{Name: "randomItem", Arity: AtLeast(1), Deterministic: false, Apply: func(_ Context, args []value.Value) value.Value {
		return args[randIntn(len(args))]
	}})
	register(&Function{Name: "randomString", Arity: Fixed(1), Deterministic: false, Apply: func(_ Context, args []value.Value) value.Value {
		n, ok := args[0].AsInt()
		if !ok || n < 0 {
			return value.Invalid()
		}
		const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
		b := make([]byte, n)
		for i := range b {
			b[i] = alphabet[randIntn(len(alphabet))]
		}
		return value.String(string(b))
	}})

	registerDateFunctions()
}

func num3(args []value.Value) (float64, float64, float64, bool) {
	a, ok1 := args[0].AsDouble()
	b, ok2 := args[1].AsDouble()
	c, ok3 := args[2].AsDouble()
	return a, b, c, ok1 && ok2 && ok3
}

func stringMap(f func(string) string) FunctionApply {
	return func(_ Context, args []value.Value) value.Value {
		return value.String(f(args[0].AsString()))
	}
}

func boolReduce(combine func(acc, v bool) bool, identity bool) FunctionApply {
	return func(_ Context, args []value.Value) value.Value {
		acc := identity
		for _, a := range args {
			b, ok := a.AsBool()
			if !ok {
				return value.Invalid()
			}
			acc = combine(acc, b)
		}
		return value.Bool(acc)
	}
}

func minMaxFunc(want int) FunctionApply {
	return func(_ Context, args []value.Value) value.Value {
		var best value.Value
		have := false
		for _, a := range args {
			if a.IsInvalid() {
				continue
			}
			if !have || a.Compare(best) == want {
				best = a
				have = true
			}
		}
		if !have {
			return value.Invalid()
		}
		return best
	}
}

func memberOf(needle value.Value, hay []value.Value) bool {
	for _, h := range hay {
		if eq, ok := needle.Equals(h).AsBool(); ok && eq {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// levenshtein computes the classic edit distance via a two-row DP.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(minInt(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// probit approximates the inverse standard normal CDF using Acklam's
// rational approximation (good to ~1.15e-9 relative error).
func probit(p float64) float64 {
	a := []float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02, 1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := []float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02, 6.680131188771972e+01, -1.328068155288572e+01}
	c := []float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00, -2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := []float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00, 3.754408661907416e+00}
	plow := 0.02425
	if p < plow {
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
	if p > 1-plow {
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	}
	q := p - 0.5
	r := q * q
	return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
		(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
}
