package domain

import "math"

const (
	// DefaultFlowCoefficient is the effectiveness of openings for wind-driven flow
	// (0.5-0.6 for perpendicular winds).
	DefaultFlowCoefficient = 0.6

	// stackFactor is the empirical constant of the stack-effect formula, giving m³/min.
	stackFactor = 7.0
)

// VentilationOpeningArea returns the free opening area (m²) that passes flow (m³/h)
// at wind speed (m/h) with flow coefficient k. A zero k*windSpeed yields 0.
func VentilationOpeningArea(flow, windSpeed, k float64) float64 {
	return ratioOrZero(flow, k*windSpeed)
}

// ThermalFlow returns the stack-effect flow (m³/min) through an opening of area (m²)
// with height difference h (m) between inlet and outlet. When the outdoor air is
// warmer than indoors the driving term is clamped to zero, giving no flow.
func ThermalFlow(area, height, indoorTemp, outdoorTemp float64) float64 {
	return stackFactor * area * math.Sqrt(math.Max(0, height*(indoorTemp-outdoorTemp)))
}

// WindFlow returns the wind-driven flow (m³/h) through the smaller opening.
func WindFlow(smallerArea, windSpeed, k float64) float64 {
	return k * smallerArea * windSpeed
}

// WindFlowPerMinute is WindFlow converted to m³/min.
func WindFlowPerMinute(smallerArea, windSpeed, k float64) float64 {
	return WindFlow(smallerArea, windSpeed, k) / 60.0
}

// ForcesInput describes an opening pair driven by both stack effect and wind.
type ForcesInput struct {
	InletArea   float64 // m², free area of the inlet
	Height      float64 // m, vertical distance between inlet and outlet
	IndoorTemp  float64 // °C at height Height
	OutdoorTemp float64 // °C
	SmallerArea float64 // m², smaller of the two openings
	WindSpeed   float64 // m/h
	Coefficient float64
}

// Forces holds the thermal, wind and combined flows, all in m³/min.
type Forces struct {
	Thermal  float64
	Wind     float64
	Combined float64
}

// CombinedFlow returns the resultant of the thermal and wind flows (m³/min).
// The two driving forces add as vectors: Q² = Qw² + Qt².
func CombinedFlow(in ForcesInput) float64 {
	return VentilationForces(in).Combined
}

// VentilationForces evaluates both driving flows and their combination.
func VentilationForces(in ForcesInput) Forces {
	thermal := ThermalFlow(in.InletArea, in.Height, in.IndoorTemp, in.OutdoorTemp)
	wind := WindFlowPerMinute(in.SmallerArea, in.WindSpeed, in.Coefficient)
	return Forces{
		Thermal:  thermal,
		Wind:     wind,
		Combined: math.Hypot(wind, thermal),
	}
}
