package expr

import "github.com/pixelspark/warp/value"

func toValue(a interface{}) value.Value {
	switch v := a.(type) {
	case int:
		return value.Int(int64(v))
	case string:
		return value.String(v)
	case bool:
		return value.Bool(v)
	case value.Value:
		return v
	default:
		return value.Invalid()
	}
}

func mustInt(v value.Value) int64 {
	i, _ := v.AsInt()
	return i
}

func mustBool(v value.Value) bool {
	b, _ := v.AsBool()
	return b
}
