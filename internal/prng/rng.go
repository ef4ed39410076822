// Package prng provides deterministic randomness for round selection and option ordering.
//
// Every function here is pure with respect to its seed. There is no package-level
// generator, so concurrent sessions never share state.
package prng

// Mulberry32 is a 32-bit seeded pseudo-random number generator.
// The same seed yields the same sequence on every platform.
type Mulberry32 struct {
	state uint32
}

// New returns a generator seeded with seed.
func New(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Next returns the next value in [0, 1).
func (r *Mulberry32) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *Mulberry32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(r.Next() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
