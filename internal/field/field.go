// Package field provides the default delegate capabilities for the two
// physics-flavored operators: the hopfion soliton field generator and the
// polarization-asymmetry simulator. Both are opaque to the core and
// replaceable through the task processor's capability interfaces.
package field

import "math"

// SolitonField is an opaque hopfion field snapshot: a lattice of unit
// quaternions plus its hopf index.
type SolitonField struct {
	QX [][4]float64 `json:"q_x"`
	NH uint64       `json:"n_h"`
}

// Asymmetry is the outcome of one polarization-asymmetry run: the asymmetry
// value and its statistical sensitivity over increasing event counts.
type Asymmetry struct {
	A      float64   `json:"a"`
	Kappa  float64   `json:"kappa"`
	Sigma  []float64 `json:"sigma"`
	Events []uint64  `json:"n_values"`
}

// Hopfion generates minimal soliton fields.
type Hopfion struct {
	// Sites is the number of lattice sites per generated field.
	Sites int
}

// Generate returns a hopf-index-1 field. With Sites unset a single identity
// quaternion is produced; otherwise the sites trace a closed rotation about
// the z axis.
func (h Hopfion) Generate() SolitonField {
	n := h.Sites
	if n <= 0 {
		n = 1
	}

	qx := make([][4]float64, n)
	for i := range qx {
		phi := 2 * math.Pi * float64(i) / float64(n)
		qx[i] = [4]float64{math.Cos(phi / 2), 0, 0, math.Sin(phi / 2)}
	}
	return SolitonField{QX: qx, NH: 1}
}

// LeadingOrder is the default asymmetry simulator. At leading order the
// asymmetry equals the coupling kappa.
type LeadingOrder struct{}

// Simulate computes the asymmetry for the coupling and its sensitivity curve
// sigma_i = |a| / sqrt((1 - a^2) / n_i) over event counts 1, 1001, 2001, ...
// up to events.
func (LeadingOrder) Simulate(kappa float64, events uint64) Asymmetry {
	a := kappa

	var ns []uint64
	var sigma []float64
	for n := uint64(1); n <= events; n += 1000 {
		ns = append(ns, n)
		sigma = append(sigma, math.Abs(a)/math.Sqrt((1-a*a)/float64(n)))
	}

	return Asymmetry{A: a, Kappa: kappa, Sigma: sigma, Events: ns}
}
