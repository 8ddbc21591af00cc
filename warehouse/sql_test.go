package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pixelspark/warp/value"
)

func TestFromDriverValue(t *testing.T) {
	assert.Equal(t, value.Empty(), fromDriverValue(nil))
	assert.Equal(t, value.Bool(true), fromDriverValue(true))
	assert.Equal(t, value.Int(42), fromDriverValue(int64(42)))
	assert.Equal(t, value.Double(3.5), fromDriverValue(3.5))
	assert.Equal(t, value.String("hi"), fromDriverValue([]byte("hi")))
	assert.Equal(t, value.String("hi"), fromDriverValue("hi"))

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := fromDriverValue(now)
	assert.Equal(t, value.KindDate, got.Kind())
}

func TestToValue(t *testing.T) {
	assert.Equal(t, value.Empty(), toValue(nil))
	assert.Equal(t, value.String("x"), toValue("x"))
	assert.Equal(t, value.Int(7), toValue(7))
	assert.Equal(t, value.Int(7), toValue(int64(7)))
	assert.Equal(t, value.Double(1.5), toValue(1.5))
	assert.Equal(t, value.Bool(false), toValue(false))
	assert.Equal(t, value.Int(9), toValue(value.Int(9)))
}
