package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRange(t *testing.T) {
	s := NewSampler(7)
	for n := 0; n < 200; n++ {
		m := s.Sample()
		for _, v := range m.Flatten() {
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
		require.True(t, m.Valid())
	}
}

func TestSuccessiveSamplesDiffer(t *testing.T) {
	s := NewSampler(0)
	a := s.Sample()
	b := s.Sample()
	assert.NotEqual(t, a, b)
}

func TestSeededSamplerIsReproducible(t *testing.T) {
	a := NewSampler(99)
	b := NewSampler(99)
	assert.Equal(t, int64(99), a.Seed())
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestTimeSeededSamplerHasSeed(t *testing.T) {
	s := NewSampler(0)
	assert.NotZero(t, s.Seed())
}

func TestFlattenAndFromSlice(t *testing.T) {
	var m Matrix
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m[i][j] = float64(i*Size + j)
		}
	}
	flat := m.Flatten()
	require.Len(t, flat, 16)
	assert.Equal(t, 5.0, flat[5])

	back, ok := FromSlice(flat)
	require.True(t, ok)
	assert.Equal(t, m, back)

	_, ok = FromSlice(flat[:3])
	assert.False(t, ok)
}

func TestValidRejectsNonFinite(t *testing.T) {
	var m Matrix
	m[2][3] = math.NaN()
	assert.False(t, m.Valid())
	m[2][3] = math.Inf(1)
	assert.False(t, m.Valid())
}
