package colormap

import "math"

// DefaultPeriod is the band width, in iterations, used by ColorFromIterations
// when cycling is enabled.
const DefaultPeriod = 64

// IterationMapper converts escape-time iteration counts into colors.
// The zero value cycles nothing, paints interior points black and looks
// colors up directly in the colormap.
type IterationMapper struct {
	// Interior is returned for points that reached the iteration limit.
	Interior Color

	// Period is the band width for cycling. Zero disables cycling even
	// when requested.
	Period uint32

	// LogScale compresses positions with log10(10t).
	LogScale bool

	// LUT, when set, replaces interpolation with a table lookup. It must
	// have been built from the colormap passed to Color.
	LUT *LUT
}

// ColorFromIterations maps an iteration count onto cm. Counts at or above
// maxIterations yield Black. With cycle set the gradient repeats every
// DefaultPeriod iterations, otherwise it is traversed once over
// [0, maxIterations).
func ColorFromIterations(iterations, maxIterations uint32, cm *ColorMap, cycle bool) Color {
	m := IterationMapper{Interior: Black, Period: DefaultPeriod}
	return m.Color(iterations, maxIterations, cm, cycle)
}

// Color maps an iteration count onto cm following the mapper settings.
func (m IterationMapper) Color(iterations, maxIterations uint32, cm *ColorMap, cycle bool) Color {
	if iterations >= maxIterations {
		return m.Interior
	}

	t := m.Position(iterations, maxIterations, cycle)
	if m.LUT != nil {
		return m.LUT.Lookup(t)
	}
	return cm.Color(t)
}

// Position returns the normalized gradient position for an escaping point.
func (m IterationMapper) Position(iterations, maxIterations uint32, cycle bool) float64 {
	var t float64
	switch {
	case cycle && m.Period > 0:
		t = float64(iterations%m.Period) / float64(m.Period)
	case maxIterations > 0:
		t = float64(iterations) / float64(maxIterations)
	}

	if m.LogScale {
		// log10(0) is -Inf, clamped to 0 below.
		t = math.Log10(t * 10)
	}
	return clamp01(t)
}
