package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHopfionGenerate(t *testing.T) {
	f := Hopfion{}.Generate()
	require.Len(t, f.QX, 1)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, f.QX[0])
	assert.Equal(t, uint64(1), f.NH)

	f = Hopfion{Sites: 8}.Generate()
	require.Len(t, f.QX, 8)
	for _, q := range f.QX {
		norm := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
		assert.InDelta(t, 1.0, norm, 1e-12)
	}
}

func TestLeadingOrderSimulate(t *testing.T) {
	res := LeadingOrder{}.Simulate(0.2, 5000)

	assert.Equal(t, 0.2, res.A)
	assert.Equal(t, 0.2, res.Kappa)
	// Event counts step by 1000 from 1.
	assert.Equal(t, []uint64{1, 1001, 2001, 3001, 4001}, res.Events)
	require.Len(t, res.Sigma, 5)

	// sigma grows with sqrt(n).
	for i := 1; i < len(res.Sigma); i++ {
		assert.Greater(t, res.Sigma[i], res.Sigma[i-1])
	}
	want := math.Abs(0.2) / math.Sqrt((1-0.04)/1.0)
	assert.InDelta(t, want, res.Sigma[0], 1e-12)
}
