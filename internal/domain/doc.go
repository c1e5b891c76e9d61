// Package domain implements the HVAC sizing formulas and the EPW weather record model.
//
// # Units
//
// Every quantity is a plain float64 in a fixed unit. Callers convert before calling;
// nothing here infers units.
//
//	Heat:            W
//	Temperature:     °C (differences in °C or K, numerically equal)
//	Air volume/flow: m³/h, except the ventilation-force family which reports m³/min
//	Wind speed:      m/h for the opening formulas, m/s as stored in EPW files
//	Area:            m²
//	Vapor pressure:  mm Hg
//
// # Degenerate inputs
//
// Several ratios are undefined when their denominator is zero (no temperature rise,
// no humidity difference, no wind, no clear-glass gain). Those formulas return 0
// instead of an error or an infinity. All of them go through [ratioOrZero] so the
// policy is applied in one place.
//
// # Openings
//
// Natural ventilation through an inlet and an outlet of different sizes behaves like
// a single opening with effective area A_e, where
//
//	2/A_e = 1/A_inlet + 1/A_outlet
//
// Solving for one side can require an infinitely large opening (the known side is
// already too small to reach A_e). [SolveOpenings] reports that side as
// [Unsatisfiable] rather than as +Inf so it cannot leak into later arithmetic.
//
// # EPW files
//
// EnergyPlus Weather files are comma-separated text. The first eight lines are
// location and design metadata; every later line is one hourly observation. Only six
// columns are read:
//
//	0 year | 1 month | 2 day | 3 hour (1-24) | 6 dry-bulb temperature °C | 21 wind speed m/s
//
// Datasets are identified by the SHA-256 digest of the uploaded bytes so an identical
// re-upload maps to the same ID.
package domain
