package database

import (
	"github.com/nanogallery/nanopay/database/records"
)

func (backend *JSONBackend) PutPayment(record *records.PaymentRecord) error {
	backend.DataMutex.Lock()
	defer backend.DataMutex.Unlock()

	backend.Data.Payments[record.Hash] = record

	return nil
}

func (backend *JSONBackend) GetPayments(address string) ([]*records.PaymentRecord, error) {
	backend.DataMutex.RLock()
	defer backend.DataMutex.RUnlock()

	payments := make([]*records.PaymentRecord, 0)
	for _, record := range backend.Data.Payments {
		if record.FromWallet == address || record.ToWallet == address {
			payments = append(payments, record)
		}
	}

	return payments, nil
}
