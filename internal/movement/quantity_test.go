package movement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockbridge/stockbridge/internal/mapping"
	_ "github.com/stockbridge/stockbridge/internal/testing/guard"
)

func TestAdjustQuantity(t *testing.T) {
	tracked := mapping.NewSet([]string{"Su-Sh/Stock", "Le-Sh/Stock"})

	tests := []struct {
		name   string
		source string
		dest   string
		raw    float64
		want   float64
	}{
		{"outbound from tracked source", "Su-Sh/Stock", "Customers", 5, -5},
		{"inbound to tracked dest", "Vendors", "Su-Sh/Stock", 5, 5},
		{"neither endpoint tracked", "Vendors", "Customers", 5, 0},
		{"negative raw normalised outbound", "Su-Sh/Stock", "Customers", -3, -3},
		{"negative raw normalised inbound", "Vendors", "Le-Sh/Stock", -3, 3},
		{"zero quantity", "Su-Sh/Stock", "Customers", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustQuantity(tt.source, tt.dest, tt.raw, tracked))
		})
	}
}

func TestAdjustQuantitySourcePriority(t *testing.T) {
	tracked := mapping.NewSet([]string{"Su-Sh/Stock", "Le-Sh/Stock"})

	// An internal transfer between two tracked locations nets as an outbound
	// move from the source.
	got := AdjustQuantity("Su-Sh/Stock", "Le-Sh/Stock", 7, tracked)
	assert.Equal(t, -7.0, got)
}

func TestAdjustQuantityNonFinite(t *testing.T) {
	tracked := mapping.NewSet([]string{"Su-Sh/Stock"})

	assert.Equal(t, 0.0, AdjustQuantity("Su-Sh/Stock", "Customers", math.NaN(), tracked))
	assert.Equal(t, 0.0, AdjustQuantity("Su-Sh/Stock", "Customers", math.Inf(1), tracked))
	assert.Equal(t, 0.0, AdjustQuantity("Vendors", "Su-Sh/Stock", math.Inf(-1), tracked))
}
