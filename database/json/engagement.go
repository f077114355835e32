package database

import (
	"github.com/nanogallery/nanopay/database/records"
)

func (backend *JSONBackend) PutEngagement(address string, stat *records.EngagementStat) error {
	backend.DataMutex.Lock()
	defer backend.DataMutex.Unlock()

	backend.Data.Engagement[address] = stat

	return nil
}

func (backend *JSONBackend) GetAllEngagement() (map[string]*records.EngagementStat, error) {
	backend.DataMutex.RLock()
	defer backend.DataMutex.RUnlock()

	stats := make(map[string]*records.EngagementStat, len(backend.Data.Engagement))
	for address, stat := range backend.Data.Engagement {
		copied := *stat
		stats[address] = &copied
	}

	return stats, nil
}
