// Package value implements Warp's dynamically typed scalar domain: a
// tagged sum with total coercion between variants and total-ordering
// comparison, the way every cell in a raster or SQL result set is
// represented once it reaches the expression evaluator.
package value

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant a Value currently holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindEmpty
	KindBool
	KindInt
	KindDouble
	KindString
	KindDate
	KindBlob
)

// ReferenceDate is the UTC epoch Date values are measured in seconds
// from ("UTC seconds since reference", per the data model).
var ReferenceDate = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

// Value is Warp's tagged scalar. The zero Value is Invalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	blob []byte
}

func Invalid() Value           { return Value{kind: KindInvalid} }
func Empty() Value             { return Value{kind: KindEmpty} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Int(i int64) Value        { return Value{kind: KindInt, i: i} }
func Double(f float64) Value   { return Value{kind: KindDouble, f: f} }
func String(s string) Value    { return Value{kind: KindString, s: s} }
func Blob(b []byte) Value      { return Value{kind: KindBlob, blob: append([]byte(nil), b...)} }
func Date(secs float64) Value  { return Value{kind: KindDate, f: secs} }
func DateFromTime(t time.Time) Value {
	return Date(t.UTC().Sub(ReferenceDate).Seconds())
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsInvalid() bool { return v.kind == KindInvalid }
func (v Value) IsEmpty() bool   { return v.kind == KindEmpty }

// ToTime converts a Date value back to an absolute UTC time. Only
// meaningful when Kind() == KindDate.
func (v Value) ToTime() time.Time {
	return ReferenceDate.Add(time.Duration(v.f * float64(time.Second)))
}

// IsNumeric reports whether the value participates in numeric
// coercion (Int, Double, Bool, which coerces to 0/1, and a String
// that parses as a number).
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInt, KindDouble, KindBool:
		return true
	case KindString:
		_, ok := parseNumeric(v.s)
		return ok
	}
	return false
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AsDouble coerces the value to a double per the total-coercion rule;
// returns (0, false) when no numeric interpretation exists.
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble:
		return v.f, true
	case KindDate:
		return v.f, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		return parseNumeric(v.s)
	}
	return 0, false
}

// AsInt coerces to an integer by truncation of AsDouble.
func (v Value) AsInt() (int64, bool) {
	f, ok := v.AsDouble()
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// AsBool coerces to a boolean. Empty and Invalid are never true.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	case KindDouble:
		return v.f != 0, true
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0", "":
			return false, true
		}
		if f, ok := parseNumeric(v.s); ok {
			return f != 0, true
		}
		return false, false
	case KindEmpty:
		return false, true
	}
	return false, false
}

// AsString coerces to a string. Empty coerces to "" (for `&`
// concatenation); Invalid coerces to "" as well but callers checking
// for validity should test IsInvalid first.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindEmpty, KindInvalid:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return formatDouble(v.f)
	case KindDate:
		return v.ToTime().Format(time.RFC3339)
	case KindBlob:
		return string(v.blob)
	}
	return ""
}

func formatDouble(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "invalid"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// AsBlob returns the raw bytes backing a Blob value, or the UTF-8
// bytes of its string coercion otherwise.
func (v Value) AsBlob() []byte {
	if v.kind == KindBlob {
		return v.blob
	}
	return []byte(v.AsString())
}

// Equals implements cross-type equality: numeric coercion when both
// sides are numeric, string comparison otherwise. Invalid never
// equals anything, including another Invalid (matching "any
// arithmetic/comparison with Invalid yields Invalid" — but callers
// needing Boolean equality-for-grouping should use IdenticalTo).
func (a Value) Equals(b Value) Value {
	if a.kind == KindInvalid || b.kind == KindInvalid {
		return Invalid()
	}
	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.AsDouble()
		bf, _ := b.AsDouble()
		return Bool(af == bf)
	}
	return Bool(a.AsString() == b.AsString())
}

// IdenticalTo is a non-Invalid-propagating structural equality used
// for grouping keys, distinct, and hash-join buckets.
func (a Value) IdenticalTo(b Value) bool {
	if a.kind != b.kind {
		// still allow numeric cross-kind (1 == "1"-style) for joins/group-by
		if a.IsNumeric() && b.IsNumeric() {
			af, _ := a.AsDouble()
			bf, _ := b.AsDouble()
			return af == bf
		}
		return false
	}
	switch a.kind {
	case KindInvalid, KindEmpty:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindDouble, KindDate:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindBlob:
		return string(a.blob) == string(b.blob)
	}
	return false
}

// ordinal gives the relative position of a Kind in the total order:
// Invalid < Empty < Bool < numeric < String < Date.
func ordinal(k Kind) int {
	switch k {
	case KindInvalid:
		return 0
	case KindEmpty:
		return 1
	case KindBool:
		return 2
	case KindInt, KindDouble:
		return 3
	case KindString:
		return 4
	case KindDate:
		return 5
	case KindBlob:
		return 6
	}
	return 7
}

// Compare implements the total order from the data model. Returns
// -1, 0, or 1.
func (a Value) Compare(b Value) int {
	// numeric-vs-numeric (including Bool) compares numerically even
	// across Int/Double/Bool, per "numeric compared" in the order spec.
	if a.IsNumeric() && b.IsNumeric() && a.kind != KindString && b.kind != KindString {
		af, _ := a.AsDouble()
		bf, _ := b.AsDouble()
		return cmpFloat(af, bf)
	}
	ao, bo := ordinal(a.kind), ordinal(b.kind)
	if ao != bo {
		return cmpInt(ao, bo)
	}
	switch a.kind {
	case KindInvalid, KindEmpty:
		return 0
	case KindBool:
		return cmpBool(a.b, b.b)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindDate:
		return cmpFloat(a.f, b.f)
	case KindBlob:
		return strings.Compare(string(a.blob), string(b.blob))
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

// Hash implements the data model's hash rule: fixed hashes for
// Invalid/Empty, normalized-double hashing for numerics, case
// sensitive string hashing otherwise.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	switch v.kind {
	case KindInvalid:
		return 0x1
	case KindEmpty:
		return 0x2
	case KindBool, KindInt, KindDouble:
		f, _ := v.AsDouble()
		fmt.Fprintf(h, "#%v", f)
	case KindDate:
		fmt.Fprintf(h, "@%v", v.f)
	case KindString:
		h.Write([]byte(v.s))
	case KindBlob:
		h.Write(v.blob)
	}
	return h.Sum64()
}

// Arithmetic. All binary arithmetic propagates Invalid and coerces
// numeric operands to Double.
func Add(a, b Value) Value { return numericOp(a, b, func(x, y float64) float64 { return x + y }) }
func Sub(a, b Value) Value { return numericOp(a, b, func(x, y float64) float64 { return x - y }) }
func Mul(a, b Value) Value { return numericOp(a, b, func(x, y float64) float64 { return x * y }) }

func Div(a, b Value) Value {
	return numericOpMaybe(a, b, func(x, y float64) (float64, bool) {
		if y == 0 {
			return 0, false
		}
		return x / y, true
	})
}

func Mod(a, b Value) Value {
	return numericOpMaybe(a, b, func(x, y float64) (float64, bool) {
		if y == 0 {
			return 0, false
		}
		return math.Mod(x, y), true
	})
}

func Pow(a, b Value) Value { return numericOp(a, b, math.Pow) }

// Concat is string concatenation (the `&` operator): never numeric,
// Empty coerces to "".
func Concat(a, b Value) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	return String(a.AsString() + b.AsString())
}

func numericOp(a, b Value, f func(x, y float64) float64) Value {
	return numericOpMaybe(a, b, func(x, y float64) (float64, bool) { return f(x, y), true })
}

func numericOpMaybe(a, b Value, f func(x, y float64) (float64, bool)) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	af, aok := a.AsDouble()
	bf, bok := b.AsDouble()
	if !aok || !bok {
		return Invalid()
	}
	r, ok := f(af, bf)
	if !ok {
		return Invalid()
	}
	return Double(r)
}

// Comparison operators used by Binary expressions: numeric comparison
// when both operands are numeric, string comparison otherwise. Always
// returns Bool or Invalid.
func Lt(a, b Value) Value  { return compareOp(a, b, func(c int) bool { return c < 0 }) }
func Gt(a, b Value) Value  { return compareOp(a, b, func(c int) bool { return c > 0 }) }
func Lte(a, b Value) Value { return compareOp(a, b, func(c int) bool { return c <= 0 }) }
func Gte(a, b Value) Value { return compareOp(a, b, func(c int) bool { return c >= 0 }) }

func compareOp(a, b Value, pred func(int) bool) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	if a.IsNumeric() && b.IsNumeric() {
		af, _ := a.AsDouble()
		bf, _ := b.AsDouble()
		return Bool(pred(cmpFloat(af, bf)))
	}
	return Bool(pred(strings.Compare(a.AsString(), b.AsString())))
}

func Eq(a, b Value) Value  { return a.Equals(b) }
func Neq(a, b Value) Value {
	eq := a.Equals(b)
	if eq.IsInvalid() {
		return Invalid()
	}
	return Bool(!eq.b)
}

// Contains implements `~=`: case-insensitive substring test.
func Contains(a, b Value) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	return Bool(strings.Contains(strings.ToLower(a.AsString()), strings.ToLower(b.AsString())))
}

// ContainsStrict implements `~~=`: case-sensitive substring test.
func ContainsStrict(a, b Value) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	return Bool(strings.Contains(a.AsString(), b.AsString()))
}

// MatchesRegex implements `±=`: case-insensitive regex match.
func MatchesRegex(a, b Value) Value {
	return regexMatch(a, b, true)
}

// MatchesRegexStrict implements `±±=`: case-sensitive regex match.
func MatchesRegexStrict(a, b Value) Value {
	return regexMatch(a, b, false)
}

func regexMatch(a, b Value, insensitive bool) Value {
	if a.IsInvalid() || b.IsInvalid() {
		return Invalid()
	}
	pattern := b.AsString()
	if insensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Invalid()
	}
	return Bool(re.MatchString(a.AsString()))
}

func (v Value) String() string {
	switch v.kind {
	case KindInvalid:
		return "#INVALID"
	case KindEmpty:
		return ""
	default:
		return v.AsString()
	}
}
