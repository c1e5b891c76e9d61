// Package weather holds the process-wide weather dataset: the most recently
// uploaded EPW file, indexed for hourly point lookups.
package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
	"github.com/couchcryptid/hvac-sizing-service/internal/observability"
)

const publishTimeout = 5 * time.Second

// Publisher announces a newly loaded dataset to downstream consumers.
type Publisher interface {
	PublishDataset(ctx context.Context, summary domain.DatasetSummary) error
}

// QueryStatus is the outcome of a point lookup.
type QueryStatus int

const (
	QueryFound QueryStatus = iota
	QueryNotFound
	QueryNoDataset
)

func (s QueryStatus) String() string {
	switch s {
	case QueryFound:
		return "found"
	case QueryNotFound:
		return "not_found"
	case QueryNoDataset:
		return "no_dataset"
	default:
		return "unknown"
	}
}

// Reading is the weather at one hour.
type Reading struct {
	TemperatureC float64
	WindSpeedMS  float64
	WindSpeedMH  float64
}

// QueryResult is returned by Store.Query. Reading is only set when Status is QueryFound.
type QueryResult struct {
	Status    QueryStatus
	Key       domain.Key
	DatasetID string
	Reading   Reading
}

type snapshot struct {
	dataset  *domain.Dataset
	loadedAt time.Time
}

// Store holds the current dataset. Uploads replace it wholesale: readers see
// either the old dataset or the new one, never a mix, and a failed upload
// leaves the old one in place.
type Store struct {
	current   atomic.Pointer[snapshot]
	cache     *datasetCache
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewStore creates an empty Store. publisher may be nil.
func NewStore(cacheSize int, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if cacheSize < 1 {
		cacheSize = 1
	}
	return &Store{
		cache:     newDatasetCache(cacheSize),
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Ingest parses raw as an EPW file and, on success, makes it the current
// dataset. Errors wrap domain.ErrParseFailure.
func (s *Store) Ingest(ctx context.Context, raw []byte) (domain.DatasetSummary, error) {
	start := time.Now()
	id := domain.DatasetID(raw)

	ds, cached := s.cache.get(id)
	if !cached {
		records, err := domain.ParseEPW(raw)
		if err != nil {
			s.metrics.WeatherUploads.WithLabelValues("parse_error").Inc()
			s.logger.Warn("weather file rejected", "error", err, "bytes", len(raw))
			return domain.DatasetSummary{}, fmt.Errorf("ingest weather file: %w", err)
		}
		ds = domain.NewDataset(id, records)
		s.cache.put(ds)
	}

	snap := &snapshot{dataset: ds, loadedAt: domain.Now()}
	s.current.Store(snap)
	summary := ds.Summary(snap.loadedAt)

	outcome := "loaded"
	if cached {
		outcome = "cached"
	}
	s.metrics.WeatherUploads.WithLabelValues(outcome).Inc()
	s.metrics.WeatherRecords.Set(float64(ds.Len()))
	s.metrics.WeatherIngestDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("weather dataset loaded",
		"dataset_id", id,
		"records", ds.Len(),
		"years", summary.Years,
		"cached", cached,
	)

	s.publish(ctx, summary)
	return summary, nil
}

// publish sends the dataset event. The dataset is already live, so failures
// are logged and counted only.
func (s *Store) publish(ctx context.Context, summary domain.DatasetSummary) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.PublishDataset(ctx, summary); err != nil {
		s.metrics.DatasetEvents.WithLabelValues("error").Inc()
		s.logger.Warn("publish dataset event failed", "error", err, "dataset_id", summary.DatasetID)
		return
	}
	s.metrics.DatasetEvents.WithLabelValues("published").Inc()
}

// Query looks up the reading at k in the current dataset.
func (s *Store) Query(k domain.Key) QueryResult {
	res := QueryResult{Status: QueryNoDataset, Key: k}

	snap := s.current.Load()
	if snap == nil {
		s.metrics.WeatherQueries.WithLabelValues(res.Status.String()).Inc()
		return res
	}

	res.DatasetID = snap.dataset.ID()
	rec, ok := snap.dataset.Lookup(k)
	if !ok {
		res.Status = QueryNotFound
	} else {
		res.Status = QueryFound
		res.Reading = Reading{
			TemperatureC: rec.DryBulbC,
			WindSpeedMS:  rec.WindSpeedMS,
			WindSpeedMH:  rec.WindSpeedMH(),
		}
	}
	s.metrics.WeatherQueries.WithLabelValues(res.Status.String()).Inc()
	return res
}

// Current summarises the loaded dataset. It returns false before the first upload.
func (s *Store) Current() (domain.DatasetSummary, bool) {
	snap := s.current.Load()
	if snap == nil {
		return domain.DatasetSummary{}, false
	}
	return snap.dataset.Summary(snap.loadedAt), true
}

// CheckReadiness always succeeds: calculations are served without a dataset
// and queries before the first upload get a "no dataset" answer.
func (s *Store) CheckReadiness(_ context.Context) error {
	return nil
}
