package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueAt(t *testing.T) {
	obj := map[string]any{
		"tomatoes": map[string]any{"viewer": map[string]any{"rating": 3.5}},
		"imdb":     "not an object",
	}
	assert.Equal(t, 3.5, ValueAt(obj, "tomatoes", "viewer", "rating"))
	assert.Nil(t, ValueAt(obj, "tomatoes", "critic", "rating"))
	assert.Nil(t, ValueAt(obj, "imdb", "id"))
	assert.Equal(t, obj, ValueAt(obj))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "tt01", ToString("tt01"))
	assert.Equal(t, "439", ToString(json.Number("439")))
	assert.Equal(t, "42", ToString(42.0))
	assert.Equal(t, "4.5", ToString(4.5))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "", ToString([]any{"x"}))
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{json.Number("7.6"), 7.6, true},
		{" 8.1 ", 8.1, true},
		{3, 3, true},
		{map[string]any{"$numberDouble": "2.5"}, 2.5, true},
		{map[string]any{"$numberInt": json.Number("9")}, 9, true},
		{"NaN", 0, false},
		{"abc", 0, false},
		{nil, 0, false},
		{map[string]any{"other": 1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "%v", tt.in)
		}
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
		ok   bool
	}{
		{json.Number("110"), 110, true},
		{json.Number("6.7"), 6, true},
		{"1,234", 1234, true},
		{"12.9", 12, true},
		{118.0, 118, true},
		{"", 0, false},
		{"many", 0, false},
		{1e12, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestLeadingInt(t *testing.T) {
	got, ok := LeadingInt("2012è")
	assert.True(t, ok)
	assert.Equal(t, 2012, got)

	got, ok = LeadingInt(json.Number("1999"))
	assert.True(t, ok)
	assert.Equal(t, 1999, got)

	_, ok = LeadingInt("unknown")
	assert.False(t, ok)
}

func TestToTime(t *testing.T) {
	want := time.Date(1915, 3, 8, 0, 0, 0, 0, time.UTC)
	for _, in := range []any{
		"1915-03-08T00:00:00Z",
		"1915-03-08T00:00:00",
		"1915-03-08 00:00:00",
		"1915-03-08",
		map[string]any{"$date": "1915-03-08T00:00:00.000Z"},
		map[string]any{"$date": json.Number("-1729987200000")},
		map[string]any{"$date": map[string]any{"$numberLong": "-1729987200000"}},
	} {
		got, ok := ToTime(in)
		if assert.True(t, ok, "%v", in) {
			assert.True(t, want.Equal(got), "%v -> %v", in, got)
		}
	}

	_, ok := ToTime("March 1915")
	assert.False(t, ok)
	_, ok = ToTime(nil)
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{"x", true, json.Number("1"), 2.0, []any{}} {
		assert.True(t, Truthy(v), "%v", v)
	}
	for _, v := range []any{nil, "", false, json.Number("0"), 0.0, 0} {
		assert.False(t, Truthy(v), "%v", v)
	}
}
