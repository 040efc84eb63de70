package engine

import "encoding/json"

// Params is the semi-structured parameter payload of a task command.
// Values typically arrive from JSON decoding, so numbers are usually
// float64; the accessors tolerate the other common numeric kinds.
type Params map[string]any

// scalarKeys is the ordered key list ExtractScalar probes when the payload
// is not itself numeric.
var scalarKeys = []string{"magnitude", "value", "amount", "scale"}

// ExtractScalar pulls a magnitude out of an arbitrary parameter payload:
// the payload's own value when it is numeric, otherwise the first present
// of magnitude, value, amount, scale. Callers substitute 1.0 when ok=false.
func ExtractScalar(payload any) (float64, bool) {
	if v, ok := toFloat(payload); ok {
		return v, true
	}
	if m, ok := payload.(map[string]any); ok {
		for _, key := range scalarKeys {
			if v, ok := toFloat(m[key]); ok {
				return v, true
			}
		}
	}
	if p, ok := payload.(Params); ok {
		for _, key := range scalarKeys {
			if v, ok := toFloat(p[key]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// Scalar extracts a magnitude from the params map itself.
func (p Params) Scalar() (float64, bool) {
	return ExtractScalar(map[string]any(p))
}

// Float returns the named numeric parameter, or def when absent or malformed.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := toFloat(p[key]); ok {
		return v
	}
	return def
}

// String returns the named string parameter, or def when absent or malformed.
func (p Params) String(key, def string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Axis reads a 3-component axis vector. Malformed input (missing, short, or
// non-numeric components) yields the default axis [0, 1, 0].
func (p Params) Axis(key string) [3]float64 {
	def := [3]float64{0, 1, 0}

	raw, ok := p[key].([]any)
	if !ok {
		if typed, tok := p[key].([]float64); tok && len(typed) >= 3 {
			return [3]float64{typed[0], typed[1], typed[2]}
		}
		return def
	}
	if len(raw) < 3 {
		return def
	}

	var axis [3]float64
	for i := 0; i < 3; i++ {
		v, ok := toFloat(raw[i])
		if !ok {
			return def
		}
		axis[i] = v
	}
	return axis
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
