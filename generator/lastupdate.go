package generator

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Hoc27/cerropunta-app/util"
)

// UpdateRecord is the persisted bookkeeping of the last successful run.
type UpdateRecord struct {
	LastUpdateTime *time.Time `json:"lastUpdateTime"`
	ProductCount   int        `json:"productCount"`
}

// UpdateStore reads and writes the UpdateRecord JSON file. A missing or
// corrupt file degrades to the zero record.
type UpdateStore struct {
	Path string
}

func (s *UpdateStore) Load() UpdateRecord {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			util.ErrorLogger.Warnf("Failed to read last update file %s: %v", s.Path, err)
		}
		return UpdateRecord{}
	}

	var record UpdateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		util.ErrorLogger.Warnf("Corrupt last update file %s: %v", s.Path, err)
		return UpdateRecord{}
	}
	return record
}

func (s *UpdateStore) Save(productCount int) error {
	now := time.Now().UTC()
	record := UpdateRecord{LastUpdateTime: &now, ProductCount: productCount}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return err
	}

	util.InfoLogger.Infof("Saved update record: %d products", productCount)
	return nil
}
