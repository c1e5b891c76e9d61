package weather

import (
	"slices"
	"sync"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

// datasetCache keeps the most recently uploaded datasets so re-uploading a
// recent file skips parsing and indexing. It holds a handful of entries, so a
// slice ordered from least to most recently used is enough.
type datasetCache struct {
	mu         sync.Mutex
	maxEntries int
	datasets   []*domain.Dataset
}

func newDatasetCache(maxEntries int) *datasetCache {
	return &datasetCache{maxEntries: maxEntries}
}

// get returns the dataset with the given ID and marks it most recently used.
func (c *datasetCache) get(id string) (*domain.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	d := c.datasets[i]
	c.datasets = append(slices.Delete(c.datasets, i, i+1), d)
	return d, true
}

// put stores d as most recently used, evicting the oldest entry when full.
func (c *datasetCache) put(d *domain.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(d.ID()); i >= 0 {
		c.datasets = slices.Delete(c.datasets, i, i+1)
	}
	c.datasets = append(c.datasets, d)
	if over := len(c.datasets) - c.maxEntries; over > 0 {
		c.datasets = slices.Delete(c.datasets, 0, over)
	}
}

func (c *datasetCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.datasets)
}

func (c *datasetCache) indexOf(id string) int {
	return slices.IndexFunc(c.datasets, func(d *domain.Dataset) bool { return d.ID() == id })
}
