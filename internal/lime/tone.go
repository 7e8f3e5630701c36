package lime

import (
	"fmt"
	"math"
)

// ToneCorrect raises every sample of m to the power gamma. Gamma below one
// lifts the map (a brighter illumination estimate, so a milder enhancement);
// gamma above one lowers it.
func ToneCorrect(m *Plane, gamma float64) (*Plane, error) {
	if !positive(gamma) {
		return nil, fmt.Errorf("tone correct: gamma %v: %w", gamma, ErrInvalidParameter)
	}
	out := m.Clone()
	if gamma == 1 {
		return out, nil
	}
	for i, v := range out.Pix {
		out.Pix[i] = clamp01(math.Pow(clamp01(v), gamma))
	}
	return out, nil
}
