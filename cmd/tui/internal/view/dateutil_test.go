package view_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/granja/cmd/tui/internal/view"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "EmptyIsToday", input: "", want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "DayFirst", input: "05/04/2024", want: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)},
		{name: "ShortDayFirst", input: "5/4/2024", want: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)},
		{name: "ISO", input: " 2024-04-05 ", want: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)},
		{name: "Garbage", input: "mañana", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := view.ParseDate(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParsePositive(t *testing.T) {
	got, err := view.ParsePositive("2,5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(got))

	_, err = view.ParsePositive("0")
	assert.Error(t, err)

	_, err = view.ParsePositive("abc")
	assert.Error(t, err)
}
