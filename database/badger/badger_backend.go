package database

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/nanogallery/nanopay/database/records"
)

const (
	paymentKeyPrefix    = "payment:"
	engagementKeyPrefix = "engagement:"
)

type BadgerBackend struct {
	Badger *badger.DB
}

func (backend *BadgerBackend) BackendName() string {
	return "Badger"
}

func Initialize(path string) (*BadgerBackend, error) {
	log.Println("Loading Badger backend from", path)

	badger_db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, err
	}

	return &BadgerBackend{
		Badger: badger_db,
	}, nil
}

func (backend *BadgerBackend) PutPayment(record *records.PaymentRecord) error {
	jsonified, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return backend.Badger.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(paymentKeyPrefix+record.Hash), jsonified)
	})
}

func (backend *BadgerBackend) GetPayments(address string) ([]*records.PaymentRecord, error) {
	payments := make([]*records.PaymentRecord, 0)

	err := backend.Badger.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(paymentKeyPrefix)

		iterator := txn.NewIterator(options)
		defer iterator.Close()

		for iterator.Rewind(); iterator.Valid(); iterator.Next() {
			err := iterator.Item().Value(func(value []byte) error {
				var record records.PaymentRecord
				if err := json.Unmarshal(value, &record); err != nil {
					return err
				}

				if record.FromWallet == address || record.ToWallet == address {
					payments = append(payments, &record)
				}

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (backend *BadgerBackend) PutEngagement(address string, stat *records.EngagementStat) error {
	jsonified, err := json.Marshal(stat)
	if err != nil {
		return err
	}

	return backend.Badger.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(engagementKeyPrefix+address), jsonified)
	})
}

func (backend *BadgerBackend) GetAllEngagement() (map[string]*records.EngagementStat, error) {
	stats := make(map[string]*records.EngagementStat)

	err := backend.Badger.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(engagementKeyPrefix)

		iterator := txn.NewIterator(options)
		defer iterator.Close()

		for iterator.Rewind(); iterator.Valid(); iterator.Next() {
			address := strings.TrimPrefix(string(iterator.Item().Key()), engagementKeyPrefix)

			err := iterator.Item().Value(func(value []byte) error {
				var stat records.EngagementStat
				if err := json.Unmarshal(value, &stat); err != nil {
					return err
				}

				stats[address] = &stat

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (backend *BadgerBackend) Cleanup() error {
	return backend.Badger.Close()
}
