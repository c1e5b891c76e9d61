package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func finiteValue(t *testing.T, a Area) float64 {
	t.Helper()
	v, ok := a.Value()
	require.True(t, ok, "expected a finite area")
	return v
}

func TestSolveOpenings_EqualIdentity(t *testing.T) {
	for _, a := range []float64{0.001, 0.139, 1, 2.5, 37} {
		got, err := SolveOpenings(OpeningInput{KnownInlet: ptr(a), EffectiveArea: ptr(a)})
		require.NoError(t, err)

		assert.InDelta(t, a, finiteValue(t, got.Inlet), 1e-12*a+1e-15)
		assert.InDelta(t, a, finiteValue(t, got.Outlet), 1e-9*a)
	}
}

func TestSolveOpenings_SolvesEitherSide(t *testing.T) {
	// 2/1.2 - 1/1.0 = 2/3 -> outlet 1.5
	got, err := SolveOpenings(OpeningInput{KnownInlet: ptr(1.0), EffectiveArea: ptr(1.2)})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, finiteValue(t, got.Inlet), tolerance)
	assert.InDelta(t, 1.5, finiteValue(t, got.Outlet), tolerance)

	got, err = SolveOpenings(OpeningInput{KnownOutlet: ptr(1.0), EffectiveArea: ptr(1.2)})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, finiteValue(t, got.Inlet), tolerance)
	assert.InDelta(t, 1.0, finiteValue(t, got.Outlet), tolerance)
}

func TestSolveOpenings_SatisfiesHarmonicRelation(t *testing.T) {
	known, eff := 0.9, 1.4
	got, err := SolveOpenings(OpeningInput{KnownInlet: ptr(known), EffectiveArea: ptr(eff)})
	require.NoError(t, err)

	outlet := finiteValue(t, got.Outlet)
	assert.InDelta(t, 2/eff, 1/known+1/outlet, 1e-12)
}

func TestSolveOpenings_Unsatisfiable(t *testing.T) {
	tests := []struct {
		name  string
		known float64
		eff   float64
	}{
		{"boundary: known is half the effective area", 0.5, 1.0},
		{"known smaller than half", 0.3, 1.0},
		{"known much smaller", 0.01, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SolveOpenings(OpeningInput{KnownInlet: ptr(tt.known), EffectiveArea: ptr(tt.eff)})
			require.NoError(t, err)
			assert.True(t, got.Outlet.IsUnsatisfiable())
			assert.InDelta(t, tt.known, finiteValue(t, got.Inlet), tolerance)

			got, err = SolveOpenings(OpeningInput{KnownOutlet: ptr(tt.known), EffectiveArea: ptr(tt.eff)})
			require.NoError(t, err)
			assert.True(t, got.Inlet.IsUnsatisfiable())
			assert.InDelta(t, tt.known, finiteValue(t, got.Outlet), tolerance)
		})
	}
}

func TestSolveOpenings_ContractViolations(t *testing.T) {
	t.Run("missing effective area", func(t *testing.T) {
		_, err := SolveOpenings(OpeningInput{KnownInlet: ptr(1)})
		assert.ErrorIs(t, err, ErrMissingEffectiveArea)
	})

	t.Run("no known side", func(t *testing.T) {
		_, err := SolveOpenings(OpeningInput{EffectiveArea: ptr(1)})
		assert.ErrorIs(t, err, ErrKnownSideRequired)
	})

	t.Run("both sides known", func(t *testing.T) {
		_, err := SolveOpenings(OpeningInput{KnownInlet: ptr(1), KnownOutlet: ptr(1), EffectiveArea: ptr(1)})
		assert.ErrorIs(t, err, ErrKnownSideRequired)
	})

	t.Run("zero effective area", func(t *testing.T) {
		_, err := SolveOpenings(OpeningInput{KnownInlet: ptr(1), EffectiveArea: ptr(0)})
		assert.ErrorIs(t, err, ErrNonPositiveArea)
	})

	t.Run("negative known area", func(t *testing.T) {
		_, err := SolveOpenings(OpeningInput{KnownOutlet: ptr(-2), EffectiveArea: ptr(1)})
		assert.ErrorIs(t, err, ErrNonPositiveArea)
	})
}

func TestArea_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Openings{Inlet: Finite(1.25), Outlet: Unsatisfiable()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Inlet":1.25,"Outlet":null}`, string(data))
}

func TestWindowOpenings_EqualMode(t *testing.T) {
	got, err := WindowOpenings(WindowInput{
		RoomVolume:  120,
		AirChanges:  4,
		Coefficient: DefaultFlowCoefficient,
		WindSpeed:   7200,
		Equal:       true,
	})
	require.NoError(t, err)

	assert.InDelta(t, 480.0, got.Flow, tolerance)
	require.NotNil(t, got.Area)
	want := 480.0 / (0.6 * 7200)
	assert.InDelta(t, want, *got.Area, tolerance)
	assert.InDelta(t, want, finiteValue(t, got.Openings.Inlet), 1e-12)
	assert.InDelta(t, want, finiteValue(t, got.Openings.Outlet), 1e-12)
}

func TestWindowOpenings_EqualModeNoWind(t *testing.T) {
	got, err := WindowOpenings(WindowInput{RoomVolume: 120, AirChanges: 4, Coefficient: 0.6, WindSpeed: 0, Equal: true})
	require.NoError(t, err)

	require.NotNil(t, got.Area)
	assert.Zero(t, *got.Area)
	assert.Zero(t, finiteValue(t, got.Openings.Inlet))
	assert.Zero(t, finiteValue(t, got.Openings.Outlet))
}

func TestWindowOpenings_UnequalMode(t *testing.T) {
	t.Run("known defaults to effective area", func(t *testing.T) {
		got, err := WindowOpenings(WindowInput{RoomVolume: 50, AirChanges: 2, EffectiveArea: ptr(0.8), CalcInlet: true})
		require.NoError(t, err)

		assert.InDelta(t, 100.0, got.Flow, tolerance)
		assert.Nil(t, got.Area)
		assert.InDelta(t, 0.8, finiteValue(t, got.Openings.Inlet), 1e-12)
		assert.InDelta(t, 0.8, finiteValue(t, got.Openings.Outlet), tolerance)
	})

	t.Run("explicit known outlet", func(t *testing.T) {
		got, err := WindowOpenings(WindowInput{EffectiveArea: ptr(1.2), KnownArea: ptr(1.0), CalcInlet: true})
		require.NoError(t, err)
		assert.InDelta(t, 1.5, finiteValue(t, got.Openings.Inlet), tolerance)
		assert.InDelta(t, 1.0, finiteValue(t, got.Openings.Outlet), tolerance)
	})

	t.Run("explicit known inlet too small", func(t *testing.T) {
		got, err := WindowOpenings(WindowInput{EffectiveArea: ptr(1.2), KnownArea: ptr(0.4)})
		require.NoError(t, err)
		assert.InDelta(t, 0.4, finiteValue(t, got.Openings.Inlet), tolerance)
		assert.True(t, got.Openings.Outlet.IsUnsatisfiable())
	})

	t.Run("missing effective area", func(t *testing.T) {
		_, err := WindowOpenings(WindowInput{RoomVolume: 50, AirChanges: 2})
		assert.ErrorIs(t, err, ErrMissingEffectiveArea)
	})
}
