package tuning

// Gain limits enforced on every suggestion, no matter where it came from.
const (
	MinKp = 0.1
	MaxKp = 100.0
	MinKi = 0.0
	MaxKi = 10.0
	MinKd = 0.0
	MaxKd = 10.0
)

// Suggestion is a proposed gain set with the advisor's reasoning.
type Suggestion struct {
	Kp          float64 `json:"kp"`
	Ki          float64 `json:"ki"`
	Kd          float64 `json:"kd"`
	Explanation string  `json:"explanation"`
}

// Clamp returns a copy with each gain forced into its allowed range.
func (s Suggestion) Clamp() Suggestion {
	s.Kp = clamp(s.Kp, MinKp, MaxKp)
	s.Ki = clamp(s.Ki, MinKi, MaxKi)
	s.Kd = clamp(s.Kd, MinKd, MaxKd)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
