package warehouse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pixelspark/warp/value"
)

func (w *sqlWarehouse) insertRow(ctx context.Context, tableName string, values map[string]interface{}) error {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]string, len(names))
	lits := make([]string, len(names))
	for i, n := range names {
		cols[i] = w.dialect.QuoteIdentifier(n)
		lit, ok := w.dialect.QuoteLiteral(toValue(values[n]))
		if !ok {
			return fmt.Errorf("warehouse: value for %q has no SQL literal form", n)
		}
		lits[i] = lit
	}
	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		w.dialect.QuoteIdentifier(tableName), strings.Join(cols, ", "), strings.Join(lits, ", "))
	_, err := w.exec(ctx, sqlText)
	return err
}

func (w *sqlWarehouse) updateRows(ctx context.Context, tableName, where, set string) (int64, error) {
	sqlText := fmt.Sprintf("UPDATE %s SET %s WHERE %s", w.dialect.QuoteIdentifier(tableName), set, where)
	res, err := w.exec(ctx, sqlText)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (w *sqlWarehouse) deleteRows(ctx context.Context, tableName, where string) (int64, error) {
	sqlText := fmt.Sprintf("DELETE FROM %s WHERE %s", w.dialect.QuoteIdentifier(tableName), where)
	res, err := w.exec(ctx, sqlText)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func toValue(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Empty()
	case value.Value:
		return x
	case string:
		return value.String(x)
	case int:
		return value.Int(int64(x))
	case int64:
		return value.Int(x)
	case float64:
		return value.Double(x)
	case bool:
		return value.Bool(x)
	default:
		return value.String(fmt.Sprintf("%v", x))
	}
}
