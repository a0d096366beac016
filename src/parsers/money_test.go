package parsers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "plain number", input: "100.50", want: 100.50},
		{name: "dollar sign", input: "$100.50", want: 100.50},
		{name: "thousands separator", input: "1,234.56", want: 1234.56},
		{name: "dollar and separator", input: "$1,234.56", want: 1234.56},
		{name: "parentheses negative", input: "(50.25)", want: -50.25},
		{name: "dollar inside parentheses", input: "($1,000.00)", want: -1000},
		{name: "explicit minus", input: "-75.00", want: -75},
		{name: "quoted value", input: "\"1,234.56\"", want: 1234.56},
		{name: "surrounding spaces", input: "  42.00  ", want: 42},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "us short", input: "1/2/2024", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "us padded", input: "01/02/2024", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "iso", input: "2024-01-02", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "trailing space", input: " 12/31/2023 ", want: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "empty", input: "", wantErr: true},
		{name: "unsupported layout", input: "02 Jan 2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDateUTCMidnight(t *testing.T) {
	got, err := ParseDate("6/15/2024")
	require.NoError(t, err)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, int64(1718409600000), got.UnixMilli())
}
