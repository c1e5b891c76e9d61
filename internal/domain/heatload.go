package domain

const (
	// DefaultAirDensity is the density of air at standard conditions (kg/m³).
	DefaultAirDensity = 1.2
	// DefaultSpecificHeat is the specific heat of air (J/kg·K).
	DefaultSpecificHeat = 1005.0

	secondsPerHour = 3600.0
)

// ACHInput describes a room whose air is replaced ACH times per hour.
type ACHInput struct {
	AirChanges   float64 // per hour
	RoomVolume   float64 // m³
	AirDensity   float64 // kg/m³
	SpecificHeat float64 // J/kg·K
	TempDiff     float64 // K
}

// HeatLoadFromACH returns the heat load (W) of the air exchanged in the room.
func HeatLoadFromACH(in ACHInput) float64 {
	return in.AirChanges * in.RoomVolume * in.AirDensity * in.SpecificHeat * in.TempDiff / secondsPerHour
}

// Element is one building element (wall, roof, glazing) of the envelope.
type Element struct {
	U    float64 // W/m²·K
	Area float64 // m²
}

// ElementLoad is the conduction heat load of an envelope.
type ElementLoad struct {
	Total float64   // W
	UA    []float64 // W/K per element, in input order
}

// HeatLoadByElements sums U*A over the elements and scales by the temperature difference.
func HeatLoadByElements(elements []Element, tempDiff float64) ElementLoad {
	ua := make([]float64, len(elements))
	var sum float64
	for i, e := range elements {
		ua[i] = e.U * e.Area
		sum += ua[i]
	}
	return ElementLoad{Total: tempDiff * sum, UA: ua}
}

// ShadeFactor returns the shaded heat gain as a percentage of the clear-glass gain.
// A zero clear-glass gain yields 0.
func ShadeFactor(shadedGain, clearGlassGain float64) float64 {
	return ratioOrZero(shadedGain, clearGlassGain) * 100
}

// SolarInput describes glazing exposed to solar irradiation.
type SolarInput struct {
	Area             float64 // m²
	SHGC             float64 // solar heat gain coefficient
	ProjectionFactor float64 // external shading multiplier, 1 for none
	Irradiation      float64 // W/m²
}

// SolarGain is the solar heat gain through glazing.
type SolarGain struct {
	Heat          float64 // W
	EffectiveSHGC float64
}

// SolarHeatGain returns A × (SHGC × PF) × I and the effective SHGC.
func SolarHeatGain(in SolarInput) SolarGain {
	effective := in.SHGC * in.ProjectionFactor
	return SolarGain{
		Heat:          in.Area * effective * in.Irradiation,
		EffectiveSHGC: effective,
	}
}
