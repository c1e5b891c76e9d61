package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
	"github.com/couchcryptid/hvac-sizing-service/internal/weather"
)

const noDatasetMessage = "No EPW file uploaded. Please upload an EPW file first."

type uploadResponse struct {
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	DatasetID     string           `json:"dataset_id"`
	Years         []int            `json:"years"`
	YearMonthData map[int][]string `json:"year_month_data"`
	TotalRecords  int              `json:"total_records"`
	LoadedAt      time.Time        `json:"loaded_at"`
}

// handleUpload accepts an EPW file as the "file" part of a multipart form or
// as the raw request body, and replaces the current dataset with it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploadMaxBytes)

	raw, err := readUpload(r, s.uploadMaxBytes)
	if err != nil {
		s.metrics.WeatherUploads.WithLabelValues("rejected").Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("EPW file exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.store.Ingest(r.Context(), raw)
	if err != nil {
		if errors.Is(err, domain.ErrParseFailure) {
			writeError(w, http.StatusUnprocessableEntity, "Error parsing EPW file: "+err.Error())
			return
		}
		s.logger.Error("weather upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "weather upload failed")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:       true,
		Message:       "EPW file uploaded successfully",
		DatasetID:     summary.DatasetID,
		Years:         summary.Years,
		YearMonthData: summary.MonthsByYear,
		TotalRecords:  summary.RecordCount,
		LoadedAt:      summary.LoadedAt,
	})
}

func readUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("read multipart form: %w", err)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errors.New(`missing required form file "file"`)
		}
		return nil, fmt.Errorf("read form file: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

type queryRequest struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
	Hour  *int `json:"hour"`
}

type queryResponse struct {
	Temperature float64 `json:"temperature"`
	WindSpeedMH float64 `json:"wind_speed_mh"`
	WindSpeedMS float64 `json:"wind_speed_ms"`
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	DatasetID   string  `json:"dataset_id,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireFields(present("year", req.Year), present("month", req.Month), present("day", req.Day), present("hour", req.Hour)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := domain.Key{Year: *req.Year, Month: *req.Month, Day: *req.Day, Hour: *req.Hour}
	res := s.store.Query(key)

	switch res.Status {
	case weather.QueryFound:
		rd := res.Reading
		writeJSON(w, http.StatusOK, queryResponse{
			Temperature: round(rd.TemperatureC, 2),
			WindSpeedMH: round(rd.WindSpeedMH, 0),
			WindSpeedMS: round(rd.WindSpeedMS, 2),
			Success:     true,
			Message:     fmt.Sprintf("Data found: Temp=%g°C, Wind=%g m/s (%g m/h)", rd.TemperatureC, rd.WindSpeedMS, rd.WindSpeedMH),
			DatasetID:   res.DatasetID,
		})
	case weather.QueryNotFound:
		writeJSON(w, http.StatusNotFound, queryResponse{
			Message:   "No data found for " + key.String(),
			DatasetID: res.DatasetID,
		})
	default:
		writeJSON(w, http.StatusConflict, queryResponse{Message: noDatasetMessage})
	}
}

func (s *Server) handleDataset(w http.ResponseWriter, _ *http.Request) {
	summary, ok := s.store.Current()
	if !ok {
		writeError(w, http.StatusConflict, noDatasetMessage)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
