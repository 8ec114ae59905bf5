package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(n int64) *int64 { return &n }

func TestFormatSalary(t *testing.T) {
	tests := []struct {
		name     string
		min, max *int64
		want     string
	}{
		{"both absent", nil, nil, "Competitive Salary"},
		{"only min", ptr(50000), nil, "From $50,000"},
		{"only max", nil, ptr(90000), "Up to $90,000"},
		{"both", ptr(50000), ptr(90000), "$50,000 - $90,000"},
		{"zero counts as absent", ptr(0), ptr(0), "Competitive Salary"},
		{"zero min with max", ptr(0), ptr(120000), "Up to $120,000"},
		{"small numbers", ptr(900), ptr(1000), "$900 - $1,000"},
		{"millions", ptr(1250000), nil, "From $1,250,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSalary(tt.min, tt.max))
		})
	}
}
