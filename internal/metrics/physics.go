package metrics

// Physical-style constants the baseline metrics derive from.
// Values follow CODATA 2018. They are a pure constant table: nothing in the
// engine mutates them, and components that need different baselines inject
// their own at construction.
const (
	// SpeedOfLight in m/s.
	SpeedOfLight = 299_792_458.0
	// ReducedPlanck is hbar in J*s.
	ReducedPlanck = 1.054571817e-34
	// electronMassKg anchors the zitterbewegung amplitude.
	electronMassKg = 9.1093837015e-31
	// inverseAlpha is 1/alpha, the inverse fine-structure constant.
	inverseAlpha = 137.035999084
	// DefaultWinding is the baseline topological winding number.
	DefaultWinding = 8.9997
)

// ZitterAmplitude is the zitterbewegung oscillation amplitude: half the
// reduced Compton wavelength of the electron, in meters.
const ZitterAmplitude = ReducedPlanck / (2 * electronMassKg * SpeedOfLight)

// FineStructure returns the fine-structure constant alpha.
func FineStructure() float64 {
	return 1 / inverseAlpha
}

// ElectronMass derives the electron rest mass back from the zitterbewegung
// amplitude, in kg. By construction it reproduces the CODATA value.
func ElectronMass() float64 {
	return ReducedPlanck / (2 * SpeedOfLight * ZitterAmplitude)
}

// QuaternionCoherence returns the baseline coherence of the quaternion field.
func QuaternionCoherence() float64 {
	return 1 - FineStructure()
}

// ZitterEntropy returns the baseline zitterbewegung entropy (dimensionless).
func ZitterEntropy() float64 {
	return 100 * FineStructure()
}
