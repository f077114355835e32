package database

import (
	"errors"
	"path"
	"strings"

	badger_backend "github.com/nanogallery/nanopay/database/badger"
	json_backend "github.com/nanogallery/nanopay/database/json"
	"github.com/nanogallery/nanopay/database/records"
)

type Config struct {
	Backend string
	DataDir string
}

type DatabaseBackend interface {
	BackendName() string

	PutPayment(record *records.PaymentRecord) error
	GetPayments(address string) ([]*records.PaymentRecord, error)

	PutEngagement(address string, stat *records.EngagementStat) error
	GetAllEngagement() (map[string]*records.EngagementStat, error)

	Cleanup() error
}

type Database struct {
	Backend DatabaseBackend
	Config  *Config
}

func New(cfg *Config) *Database {
	return &Database{
		Config: cfg,
	}
}

func (db *Database) InitializeBackend() (DatabaseBackend, error) {
	switch strings.ToLower(db.Config.Backend) {
	case "badger":
		return badger_backend.Initialize(path.Join(db.Config.DataDir, "Badger"))
	case "json":
		return json_backend.Initialize(path.Join(db.Config.DataDir, "JSON", "database.json"))
	}

	return nil, errors.New("Invalid backend provided")
}

func (db *Database) ValidateAndStart() error {
	if len(db.Config.DataDir) == 0 {
		return errors.New("Invalid DataDir provided")
	}

	backend, err := db.InitializeBackend()
	if err != nil {
		return err
	}

	db.Backend = backend

	return nil
}

func (db *Database) Cleanup() error {
	return db.Backend.Cleanup()
}
