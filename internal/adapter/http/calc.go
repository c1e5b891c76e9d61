package http

import (
	"fmt"
	"net/http"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

// calcHandler adapts a calculation to HTTP. Every error from fn is the
// caller's fault and maps to 400.
func (s *Server) calcHandler(formula string, fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r)
		if err != nil {
			s.metrics.CalculationErrors.WithLabelValues(formula).Inc()
			s.logger.Debug("calculation rejected", "formula", formula, "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.metrics.CalculationsTotal.WithLabelValues(formula).Inc()
		writeJSON(w, http.StatusOK, resp)
	}
}

type heatGainRequest struct {
	Ks *float64 `json:"Ks"`
	T  *float64 `json:"t"`
	Kl *float64 `json:"Kl"`
	H  *float64 `json:"h"`
	Wo *float64 `json:"wo"`
	Wi *float64 `json:"wi"`
}

type heatGainResponse struct {
	Qs         float64 `json:"Qs"`
	QlVapor    float64 `json:"Ql_vapor"`
	QHumidity  float64 `json:"Q_humidity"`
	QtVapor    float64 `json:"Qt_vapor"`
	QtHumidity float64 `json:"Qt_humidity"`
}

func volumeAirHeatGain(r *http.Request) (any, error) {
	var req heatGainRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(
		present("Ks", req.Ks), present("t", req.T), present("Kl", req.Kl),
		present("h", req.H), present("wo", req.Wo), present("wi", req.Wi),
	); err != nil {
		return nil, err
	}

	v := domain.ComputeAirVolumes(domain.HeatGainInput{
		SensibleHeat:      *req.Ks,
		TempRise:          *req.T,
		LatentHeat:        *req.Kl,
		VaporPressureDiff: *req.H,
		HumidityOutside:   *req.Wo,
		HumidityInside:    *req.Wi,
	})
	return heatGainResponse{
		Qs:         round(v.Sensible, 3),
		QlVapor:    round(v.LatentByVapor, 3),
		QHumidity:  round(v.LatentByHumidity, 3),
		QtVapor:    round(v.TotalByVapor, 3),
		QtHumidity: round(v.TotalByHumidity, 3),
	}, nil
}

type windowRequest struct {
	RoomVolume    *float64 `json:"V_room"`
	AirChanges    *float64 `json:"n_ach"`
	K             *float64 `json:"K"`
	WindSpeed     *float64 `json:"V"`
	EqualOpening  *bool    `json:"equal_opening"`
	EffectiveArea *float64 `json:"A_effective"`
	KnownArea     *float64 `json:"known_area"`
	CalcInlet     *bool    `json:"calc_inlet"`
}

type windowResponse struct {
	Q  float64     `json:"Q"`
	A  *float64    `json:"A"`
	Ai domain.Area `json:"Ai"`
	Ao domain.Area `json:"Ao"`
}

func windowCalculations(r *http.Request) (any, error) {
	var req windowRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(present("V_room", req.RoomVolume), present("n_ach", req.AirChanges), present("V", req.WindSpeed)); err != nil {
		return nil, err
	}

	res, err := domain.WindowOpenings(domain.WindowInput{
		RoomVolume:    *req.RoomVolume,
		AirChanges:    *req.AirChanges,
		Coefficient:   valueOr(req.K, domain.DefaultFlowCoefficient),
		WindSpeed:     *req.WindSpeed,
		Equal:         valueOr(req.EqualOpening, true),
		EffectiveArea: req.EffectiveArea,
		KnownArea:     req.KnownArea,
		CalcInlet:     valueOr(req.CalcInlet, false),
	})
	if err != nil {
		return nil, fmt.Errorf("window openings: %w", err)
	}

	resp := windowResponse{
		Q:  round(res.Flow, 2),
		Ai: roundArea(res.Openings.Inlet, 3),
		Ao: roundArea(res.Openings.Outlet, 3),
	}
	if res.Area != nil {
		a := round(*res.Area, 3)
		resp.A = &a
	}
	return resp, nil
}

type forcesRequest struct {
	InletArea   *float64 `json:"A_inlet"`
	Height      *float64 `json:"h"`
	IndoorTemp  *float64 `json:"t_i"`
	OutdoorTemp *float64 `json:"t_o"`
	SmallerArea *float64 `json:"A_smaller"`
	WindSpeed   *float64 `json:"V"`
	K           *float64 `json:"K"`
}

type forcesResponse struct {
	Qt        float64 `json:"Qt"`
	Qw        float64 `json:"Qw"`
	QCombined float64 `json:"Q_combined"`
}

func volumeAirForces(r *http.Request) (any, error) {
	var req forcesRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(
		present("A_inlet", req.InletArea), present("h", req.Height),
		present("t_i", req.IndoorTemp), present("t_o", req.OutdoorTemp),
		present("A_smaller", req.SmallerArea), present("V", req.WindSpeed),
	); err != nil {
		return nil, err
	}

	f := domain.VentilationForces(domain.ForcesInput{
		InletArea:   *req.InletArea,
		Height:      *req.Height,
		IndoorTemp:  *req.IndoorTemp,
		OutdoorTemp: *req.OutdoorTemp,
		SmallerArea: *req.SmallerArea,
		WindSpeed:   *req.WindSpeed,
		Coefficient: valueOr(req.K, domain.DefaultFlowCoefficient),
	})
	return forcesResponse{
		Qt:        round(f.Thermal, 2),
		Qw:        round(f.Wind, 2),
		QCombined: round(f.Combined, 2),
	}, nil
}

type achRequest struct {
	ACH    *float64 `json:"ACH"`
	Volume *float64 `json:"V"`
	Rho    *float64 `json:"rho"`
	Cp     *float64 `json:"Cp"`
	DeltaT *float64 `json:"delta_T"`
}

func qFromACH(r *http.Request) (any, error) {
	var req achRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(present("ACH", req.ACH), present("V", req.Volume), present("delta_T", req.DeltaT)); err != nil {
		return nil, err
	}

	q := domain.HeatLoadFromACH(domain.ACHInput{
		AirChanges:   *req.ACH,
		RoomVolume:   *req.Volume,
		AirDensity:   valueOr(req.Rho, domain.DefaultAirDensity),
		SpecificHeat: valueOr(req.Cp, domain.DefaultSpecificHeat),
		TempDiff:     *req.DeltaT,
	})
	return map[string]float64{"Q": round(q, 2)}, nil
}

type elementRequest struct {
	U *float64 `json:"U"`
	A *float64 `json:"A"`
}

type byElementRequest struct {
	Elements []elementRequest `json:"elements"`
	DeltaT   *float64         `json:"delta_T"`
}

type byElementResponse struct {
	QTotal     float64   `json:"Q_total"`
	ElementsUA []float64 `json:"elements_UA"`
}

func byElement(r *http.Request) (any, error) {
	var req byElementRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	fields := []field{{name: "elements", set: req.Elements != nil}, present("delta_T", req.DeltaT)}
	for i, e := range req.Elements {
		fields = append(fields,
			present(fmt.Sprintf("elements[%d].U", i), e.U),
			present(fmt.Sprintf("elements[%d].A", i), e.A),
		)
	}
	if err := requireFields(fields...); err != nil {
		return nil, err
	}

	elements := make([]domain.Element, len(req.Elements))
	for i, e := range req.Elements {
		elements[i] = domain.Element{U: *e.U, Area: *e.A}
	}
	load := domain.HeatLoadByElements(elements, *req.DeltaT)

	ua := make([]float64, len(load.UA))
	for i, v := range load.UA {
		ua[i] = round(v, 2)
	}
	return byElementResponse{QTotal: round(load.Total, 2), ElementsUA: ua}, nil
}

type windowPRequest struct {
	Shaded     *float64 `json:"heat_gain_shading"`
	ClearGlass *float64 `json:"heat_gain_clear_glass"`
}

func windowP(r *http.Request) (any, error) {
	var req windowPRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(present("heat_gain_shading", req.Shaded), present("heat_gain_clear_glass", req.ClearGlass)); err != nil {
		return nil, err
	}
	return map[string]float64{"shade_factor": round(domain.ShadeFactor(*req.Shaded, *req.ClearGlass), 2)}, nil
}

type solarRequest struct {
	Area             *float64 `json:"area"`
	SHGC             *float64 `json:"SHGC"`
	ProjectionFactor *float64 `json:"projection_factor"`
	Irradiation      *float64 `json:"solar_irradiation"`
}

type solarResponse struct {
	QSolar        float64 `json:"Q_solar"`
	EffectiveSHGC float64 `json:"effective_SHGC"`
}

func solarHeatGain(r *http.Request) (any, error) {
	var req solarRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if err := requireFields(present("area", req.Area), present("SHGC", req.SHGC), present("solar_irradiation", req.Irradiation)); err != nil {
		return nil, err
	}

	g := domain.SolarHeatGain(domain.SolarInput{
		Area:             *req.Area,
		SHGC:             *req.SHGC,
		ProjectionFactor: valueOr(req.ProjectionFactor, 1),
		Irradiation:      *req.Irradiation,
	})
	return solarResponse{QSolar: round(g.Heat, 2), EffectiveSHGC: round(g.EffectiveSHGC, 3)}, nil
}
