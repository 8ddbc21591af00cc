package expr

import "strings"

// Pack encoding: values are joined with packSep; any literal
// occurrence of packSep or packEsc inside a value is escaped by
// prefixing it with packEsc. Both are non-printable ASCII control
// codes chosen so ordinary text never collides with them.
const (
	packSep byte = 0x1f // unit separator
	packEsc byte = 0x1e // record separator, used as escape prefix
)

// PackStrings joins items into Warp's pack encoding, the same form the
// "pack" function produces, for callers outside this package that need
// to build or decompose packed values (e.g. the flatten operator).
func PackStrings(items []string) string { return packStrings(items) }

// UnpackString is the exported form of unpackString, for callers outside
// this package (e.g. the flatten operator) that need to decode a packed
// column value into its items.
func UnpackString(s string) []string { return unpackString(s) }

func packStrings(items []string) string {
	encoded := make([]string, len(items))
	for i, s := range items {
		encoded[i] = escapePackItem(s)
	}
	return strings.Join(encoded, string(packSep))
}

func escapePackItem(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == packSep || c == packEsc {
			sb.WriteByte(packEsc)
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// unpackString splits a pack-encoded string back into its items,
// honoring the escape prefix.
func unpackString(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			cur.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case packEsc:
			escaped = true
		case packSep:
			items = append(items, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	items = append(items, cur.String())
	return items
}
