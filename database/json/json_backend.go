package database

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nanogallery/nanopay/database/records"
)

type DBSchema struct {
	Payments   map[string]*records.PaymentRecord  `json:"payments"`   // block hash => record
	Engagement map[string]*records.EngagementStat `json:"engagement"` // nano address => stats
}

type JSONBackend struct {
	FilePath  string
	Data      DBSchema
	DataMutex sync.RWMutex

	Closed bool
}

func (backend *JSONBackend) BackendName() string {
	return "JSON"
}

func Initialize(path string) (*JSONBackend, error) {
	log.Println("Loading JSON backend from", path)

	var data DBSchema
	stat, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}

		err = os.MkdirAll(filepath.Dir(path), 0700)
		if err != nil {
			return nil, err
		}

		file, err := os.Create(path)
		if err != nil {
			return nil, err
		}

		// Write empty object
		_, err = file.Write([]byte(`{}`))
		if err != nil {
			return nil, err
		}
	} else {
		if stat.IsDir() {
			return nil, errors.New("database.json cannot be a folder")
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		err = json.Unmarshal(contents, &data)
		if err != nil {
			return nil, err
		}
	}

	if data.Payments == nil {
		data.Payments = make(map[string]*records.PaymentRecord)
	}
	if data.Engagement == nil {
		data.Engagement = make(map[string]*records.EngagementStat)
	}

	backend := &JSONBackend{
		FilePath: path,
		Data:     data,
	}

	go backend.PeriodicSaves()

	return backend, nil
}

func (backend *JSONBackend) Save() error {
	backend.DataMutex.RLock()
	jsonified, err := json.Marshal(backend.Data)
	backend.DataMutex.RUnlock()

	if err != nil {
		return err
	}

	return os.WriteFile(backend.FilePath, jsonified, 0644)
}

func (backend *JSONBackend) PeriodicSaves() {
	for !backend.Closed {
		time.Sleep(time.Second * 15)

		err := backend.Save()
		if err != nil {
			log.Println("Error writing JSON database to file:", err)
		}
	}
}

func (backend *JSONBackend) Cleanup() error {
	backend.Closed = true

	return backend.Save()
}
