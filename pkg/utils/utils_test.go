package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePositiveFloat(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOk bool
	}{
		{name: "integer", text: "65000", want: 65000, wantOk: true},
		{name: "decimal", text: "0.0821", want: 0.0821, wantOk: true},
		{name: "surrounding whitespace", text: "  42.5 ", want: 42.5, wantOk: true},
		{name: "zero", text: "0", wantOk: false},
		{name: "negative", text: "-5", wantOk: false},
		{name: "infinity", text: "Inf", wantOk: false},
		{name: "not-a-number literal", text: "NaN", wantOk: false},
		{name: "lowercase nan", text: "nan", wantOk: false},
		{name: "not a number", text: "abc", wantOk: false},
		{name: "empty", text: "", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePositiveFloat(tt.text)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "65000.5", FormatPrice(65000.5))
	assert.Equal(t, "0.0821", FormatPrice(0.0821))
	assert.Equal(t, "65000", FormatPrice(65000))
}

func TestFormatSignedPercent(t *testing.T) {
	assert.Equal(t, "+2.35%", FormatSignedPercent(2.35))
	assert.Equal(t, "-1.54%", FormatSignedPercent(-1.54))
	assert.Equal(t, "0.00%", FormatSignedPercent(0))
}

func TestFormatR(t *testing.T) {
	assert.Equal(t, "+1.50R", FormatR(1.5))
	assert.Equal(t, "-1.00R", FormatR(-1))
	assert.Equal(t, "0.00R", FormatR(0))
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}
