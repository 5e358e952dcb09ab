// Random sensor pose generation for capture requests
package pose

import (
	"math"
	"math/rand"
	"time"
)

// Size is the row and column count of a pose matrix.
const Size = 4

// Matrix is a 4x4 spatial transform.
type Matrix [Size][Size]float64

// Flatten returns the entries in row-major order.
func (m Matrix) Flatten() []float64 {
	out := make([]float64, 0, Size*Size)
	for i := 0; i < Size; i++ {
		out = append(out, m[i][:]...)
	}
	return out
}

// Valid reports whether every entry is finite.
func (m Matrix) Valid() bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// FromSlice rebuilds a matrix from a row-major slice of Size*Size values.
func FromSlice(vals []float64) (Matrix, bool) {
	var m Matrix
	if len(vals) != Size*Size {
		return m, false
	}
	for i := 0; i < Size; i++ {
		copy(m[i][:], vals[i*Size:(i+1)*Size])
	}
	return m, true
}

// Sampler draws pose matrices with entries uniform over [0,1).
// It is not safe for concurrent use.
type Sampler struct {
	rand *rand.Rand
	seed int64
}

// NewSampler creates a sampler seeded once with seed, or with the current
// time when seed is zero.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed the generator was created with.
func (s *Sampler) Seed() int64 { return s.seed }

// Sample returns a fresh matrix.
func (s *Sampler) Sample() Matrix {
	var m Matrix
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			m[i][j] = s.rand.Float64()
		}
	}
	return m
}
