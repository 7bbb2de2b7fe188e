package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		date string
		want string
		ok   bool
	}{
		{"2024-03-04", "2024-W10", true},
		{"2024-03-10", "2024-W10", true}, // Sunday closes the week
		{"2024-03-11", "2024-W11", true},
		{"2024-01-01", "2024-W01", true},
		{"2023-01-01", "2022-W52", true}, // ISO week spills into the prior year
		{"junk", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := weekKey(tt.date)
		assert.Equal(t, tt.ok, ok, tt.date)
		assert.Equal(t, tt.want, got, tt.date)
	}
}
