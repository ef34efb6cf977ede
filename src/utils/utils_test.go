package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-10", "2024-01-10"},
		{"10-01-2024", "2024-01-10"},
		{"10/01/2024", "2024-01-10"},
		{"2024/01/10", "2024-01-10"},
		{"2024-01-10 13:45:00", "2024-01-10"},
		{"2 Jan 2006", "2006-01-02"},
	}
	for _, tt := range tests {
		got := ParseFlexibleDate(tt.input)
		assert.Equal(t, tt.want, got.Format(ISODateFormat), "input %q", tt.input)
	}
}

func TestParseFlexibleDateUnparseable(t *testing.T) {
	for _, input := range []string{"", "not a date", "31-31-2024", "nan"} {
		assert.True(t, ParseFlexibleDate(input).IsZero(), "input %q", input)
	}
}

func TestFormatISODate(t *testing.T) {
	assert.Equal(t, "", FormatISODate(time.Time{}))
	assert.Equal(t, "2024-01-10", FormatISODate(time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.01, Round2(0.00625))
	assert.Equal(t, 12.5, Round2(12.5))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, -6.17, Round2(-6.172839))
	// Half values round away from zero, not to even.
	assert.Equal(t, 2.35, Round2(2.345))
}

func TestCleanMoney(t *testing.T) {
	assert.Equal(t, 0.0, CleanMoney(math.NaN()))
	assert.Equal(t, 0.0, CleanMoney(math.Inf(1)))
	assert.Equal(t, 0.0, CleanMoney(math.Inf(-1)))
	assert.Equal(t, 3.33, CleanMoney(3.333333))
}

func TestParseFloatOrZero(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"500", 500},
		{" 2.5 ", 2.5},
		{"1,234.56", 1234.56},
		{"-5", -5},
		{"", 0},
		{"n/a", 0},
		{"abc", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFloatOrZero(tt.input), "input %q", tt.input)
	}
}
