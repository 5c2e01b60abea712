package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name      string
		embedding []float64
		want      string
	}{
		{
			name:      "empty",
			embedding: nil,
			want:      "[]",
		},
		{
			name:      "single value",
			embedding: []float64{0.5},
			want:      "[0.500000]",
		},
		{
			name:      "six decimal places and negatives",
			embedding: []float64{0.1234567, -0.5, 1},
			want:      "[0.123457,-0.500000,1.000000]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVector(tt.embedding))
		})
	}
}
