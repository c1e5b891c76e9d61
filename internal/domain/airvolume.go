package domain

const (
	// sensibleAirFactor converts W/°C to m³/h of standard air.
	sensibleAirFactor = 2.9768
	// vaporAirFactor converts W/mmHg to m³/h of standard air.
	vaporAirFactor = 4127.26
	// humidityAirFactor is the latent heat of standard air per unit specific-humidity difference.
	humidityAirFactor = 814.0
)

// ratioOrZero divides num by den, returning 0 when den is exactly zero.
// It is the single place where undefined ratios are reported as zero.
func ratioOrZero(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// SensibleAirVolume returns the air volume (m³/h) needed to remove sensibleHeat (W)
// with the given allowable temperature rise (°C). A zero rise yields 0.
func SensibleAirVolume(sensibleHeat, tempRise float64) float64 {
	return ratioOrZero(sensibleAirFactor*sensibleHeat, tempRise)
}

// LatentAirVolumeByVapor returns the latent air volume (m³/h) using the vapor
// pressure difference method (mm Hg). A zero difference yields 0.
func LatentAirVolumeByVapor(latentHeat, vaporPressureDiff float64) float64 {
	return ratioOrZero(vaporAirFactor*latentHeat, vaporPressureDiff)
}

// LatentAirVolumeByHumidity returns the latent air volume (m³/h) using the specific
// humidity difference method. A zero difference yields 0.
func LatentAirVolumeByHumidity(latentHeat, humidityDiff float64) float64 {
	return ratioOrZero(latentHeat, humidityAirFactor*humidityDiff)
}

// TotalAirVolume sums a sensible and a latent air volume.
func TotalAirVolume(sensible, latent float64) float64 {
	return sensible + latent
}

// HeatGainInput holds the loads and driving differences for an air volume calculation.
type HeatGainInput struct {
	SensibleHeat      float64 // W
	TempRise          float64 // °C
	LatentHeat        float64 // W
	VaporPressureDiff float64 // mm Hg
	HumidityOutside   float64 // kg/kg
	HumidityInside    float64 // kg/kg
}

// AirVolumes reports both latent methods next to each other so they can be compared.
type AirVolumes struct {
	Sensible         float64
	LatentByVapor    float64
	LatentByHumidity float64
	TotalByVapor     float64
	TotalByHumidity  float64
}

// ComputeAirVolumes evaluates the sensible volume and both latent methods.
func ComputeAirVolumes(in HeatGainInput) AirVolumes {
	sensible := SensibleAirVolume(in.SensibleHeat, in.TempRise)
	byVapor := LatentAirVolumeByVapor(in.LatentHeat, in.VaporPressureDiff)
	byHumidity := LatentAirVolumeByHumidity(in.LatentHeat, in.HumidityOutside-in.HumidityInside)

	return AirVolumes{
		Sensible:         sensible,
		LatentByVapor:    byVapor,
		LatentByHumidity: byHumidity,
		TotalByVapor:     TotalAirVolume(sensible, byVapor),
		TotalByHumidity:  TotalAirVolume(sensible, byHumidity),
	}
}
