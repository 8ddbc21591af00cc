package expr

import (
	"strings"
	"time"

	"github.com/pixelspark/warp/value"
)

// excelEpoch is 1899-12-30 (Excel's day-0, already compensating for
// the historical 1900 leap-year bug), the reference fromExcelDate and
// toExcelDate convert against.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

func registerDateFunctions() {
	register(&Function{Name: "fromUnix", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		secs, ok := args[0].AsDouble()
		if !ok {
			return value.Invalid()
		}
		return value.DateFromTime(time.Unix(int64(secs), 0).UTC())
	}})
	register(&Function{Name: "toUnix", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value {
		return value.Int(t.Unix())
	})})

	register(&Function{Name: "fromISO8601", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		t, err := time.Parse(time.RFC3339, args[0].AsString())
		if err != nil {
			return value.Invalid()
		}
		return value.DateFromTime(t)
	}})
	register(&Function{Name: "toUTCISO8601", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value {
		return value.String(t.UTC().Format(time.RFC3339))
	})})
	register(&Function{Name: "toLocalISO8601", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value {
		return value.String(t.Local().Format(time.RFC3339))
	})})

	register(&Function{Name: "fromExcelDate", Arity: Fixed(1), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		serial, ok := args[0].AsDouble()
		if !ok {
			return value.Invalid()
		}
		t := excelEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
		return value.DateFromTime(t)
	}})
	register(&Function{Name: "toExcelDate", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value {
		return value.Double(t.Sub(excelEpoch).Hours() / 24)
	})})

	register(&Function{Name: "date", Arity: Fixed(3), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		y, ok1 := args[0].AsInt()
		m, ok2 := args[1].AsInt()
		d, ok3 := args[2].AsInt()
		if !ok1 || !ok2 || !ok3 {
			return value.Invalid()
		}
		return value.DateFromTime(time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC))
	}})

	register(&Function{Name: "day", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Day())) })})
	register(&Function{Name: "month", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Month())) })})
	register(&Function{Name: "year", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Year())) })})
	register(&Function{Name: "hour", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Hour())) })})
	register(&Function{Name: "minute", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Minute())) })})
	register(&Function{Name: "second", Arity: Fixed(1), Deterministic: true, Apply: dateFn(func(t time.Time) value.Value { return value.Int(int64(t.Second())) })})

	register(&Function{Name: "duration", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		if args[0].Kind() != value.KindDate || args[1].Kind() != value.KindDate {
			return value.Invalid()
		}
		return value.Double(args[1].ToTime().Sub(args[0].ToTime()).Seconds())
	}})
	register(&Function{Name: "after", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		if args[0].Kind() != value.KindDate {
			return value.Invalid()
		}
		secs, ok := args[1].AsDouble()
		if !ok {
			return value.Invalid()
		}
		return value.DateFromTime(args[0].ToTime().Add(time.Duration(secs * float64(time.Second))))
	}})

	register(&Function{Name: "fromUnicodeDateString", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		layout := unicodeToGoLayout(args[1].AsString())
		t, err := time.Parse(layout, args[0].AsString())
		if err != nil {
			return value.Invalid()
		}
		return value.DateFromTime(t)
	}})
	register(&Function{Name: "toUnicodeDateString", Arity: Fixed(2), Deterministic: true, Apply: func(_ Context, args []value.Value) value.Value {
		if args[0].Kind() != value.KindDate {
			return value.Invalid()
		}
		layout := unicodeToGoLayout(args[1].AsString())
		return value.String(args[0].ToTime().Format(layout))
	}})
}

func dateFn(f func(time.Time) value.Value) FunctionApply {
	return func(_ Context, args []value.Value) value.Value {
		if args[0].Kind() != value.KindDate {
			return value.Invalid()
		}
		return f(args[0].ToTime())
	}
}

// unicodeToGoLayout translates the common subset of Unicode Technical
// Standard #35 date pattern tokens (yyyy, MM, dd, HH, mm, ss) into a
// Go reference-time layout. Unrecognized runs of characters pass
// through unchanged, which covers literal punctuation (e.g. "-", ":",
// "T") in typical patterns like "yyyy-MM-dd'T'HH:mm:ss".
func unicodeToGoLayout(pattern string) string {
	replacer := strings.NewReplacer(
		"yyyy", "2006",
		"yy", "06",
		"MM", "01",
		"dd", "02",
		"HH", "15",
		"hh", "03",
		"mm", "04",
		"ss", "05",
		"'", "",
	)
	return replacer.Replace(pattern)
}
