package domain

import (
	"encoding/json"
	"errors"
	"math"
)

var (
	// ErrMissingEffectiveArea is returned when the opening solver has no target area.
	ErrMissingEffectiveArea = errors.New("effective area is required")
	// ErrKnownSideRequired is returned unless exactly one of inlet or outlet is given.
	ErrKnownSideRequired = errors.New("exactly one of inlet or outlet area is required")
	// ErrNonPositiveArea is returned for zero, negative or non-finite solver inputs.
	ErrNonPositiveArea = errors.New("opening areas must be positive and finite")
)

// Area is an opening area in m² that may be unsatisfiable: no finite opening
// reaches the requested effective area.
type Area struct {
	value         float64
	unsatisfiable bool
}

// Finite returns a satisfiable area.
func Finite(v float64) Area { return Area{value: v} }

// Unsatisfiable returns the sentinel for an opening that would have to be infinite.
func Unsatisfiable() Area { return Area{unsatisfiable: true} }

// Value returns the area and true, or 0 and false when unsatisfiable.
func (a Area) Value() (float64, bool) {
	if a.unsatisfiable {
		return 0, false
	}
	return a.value, true
}

// IsUnsatisfiable reports whether a is the unsatisfiable sentinel.
func (a Area) IsUnsatisfiable() bool { return a.unsatisfiable }

// MarshalJSON renders an unsatisfiable area as null.
func (a Area) MarshalJSON() ([]byte, error) {
	if a.unsatisfiable {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// Openings is an inlet/outlet pair.
type Openings struct {
	Inlet  Area
	Outlet Area
}

// OpeningInput names one known side and the effective area target.
// Nil fields are absent.
type OpeningInput struct {
	KnownInlet    *float64
	KnownOutlet   *float64
	EffectiveArea *float64
}

// SolveOpenings finds the missing side of an opening pair from
// 2/A_e = 1/A_i + 1/A_o. If the known side is too small for A_e the missing
// side is Unsatisfiable and the known side is still returned.
func SolveOpenings(in OpeningInput) (Openings, error) {
	if in.EffectiveArea == nil {
		return Openings{}, ErrMissingEffectiveArea
	}
	if (in.KnownInlet == nil) == (in.KnownOutlet == nil) {
		return Openings{}, ErrKnownSideRequired
	}

	known := in.KnownInlet
	if known == nil {
		known = in.KnownOutlet
	}
	if !positiveFinite(*in.EffectiveArea) || !positiveFinite(*known) {
		return Openings{}, ErrNonPositiveArea
	}

	other := companionArea(*known, *in.EffectiveArea)
	if in.KnownInlet != nil {
		return Openings{Inlet: Finite(*known), Outlet: other}, nil
	}
	return Openings{Inlet: other, Outlet: Finite(*known)}, nil
}

// companionArea solves 1/x = 2/effective - 1/known.
func companionArea(known, effective float64) Area {
	denom := 2/effective - 1/known
	if denom <= 0 {
		return Unsatisfiable()
	}
	return Finite(1 / denom)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// WindowInput sizes the openings of a room ventilated by wind.
type WindowInput struct {
	RoomVolume  float64 // m³
	AirChanges  float64 // per hour
	Coefficient float64
	WindSpeed   float64 // m/h
	Equal       bool

	// Unequal mode only.
	EffectiveArea *float64 // m²
	KnownArea     *float64 // m², defaults to EffectiveArea
	CalcInlet     bool     // solve for the inlet; otherwise the outlet
}

// WindowResult holds the required flow and the resulting opening pair.
type WindowResult struct {
	Flow     float64 // m³/h
	Area     *float64
	Openings Openings
}

// WindowOpenings computes the ventilation flow for the room and sizes its openings.
// Equal mode splits one required opening area evenly; unequal mode solves the
// missing side against an effective area.
func WindowOpenings(in WindowInput) (WindowResult, error) {
	flow := in.RoomVolume * in.AirChanges

	if in.Equal {
		area := VentilationOpeningArea(flow, in.WindSpeed, in.Coefficient)
		res := WindowResult{Flow: flow, Area: &area}
		if area == 0 {
			res.Openings = Openings{Inlet: Finite(0), Outlet: Finite(0)}
			return res, nil
		}
		openings, err := SolveOpenings(OpeningInput{KnownInlet: &area, EffectiveArea: &area})
		if err != nil {
			return WindowResult{}, err
		}
		res.Openings = openings
		return res, nil
	}

	if in.EffectiveArea == nil {
		return WindowResult{}, ErrMissingEffectiveArea
	}
	known := in.KnownArea
	if known == nil {
		known = in.EffectiveArea
	}

	solve := OpeningInput{EffectiveArea: in.EffectiveArea}
	if in.CalcInlet {
		solve.KnownOutlet = known
	} else {
		solve.KnownInlet = known
	}

	openings, err := SolveOpenings(solve)
	if err != nil {
		return WindowResult{}, err
	}
	return WindowResult{Flow: flow, Openings: openings}, nil
}
