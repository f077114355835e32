package node

import (
	"log"

	"github.com/nanogallery/nanopay/database"
	"github.com/nanogallery/nanopay/database/records"
	"github.com/nanogallery/nanopay/rewards"
)

// paymentRecorder persists confirmed payments. Fire-and-forget: a
// storage failure is logged and never propagated to the transfer.
type paymentRecorder struct {
	Database *database.Database
}

func (recorder *paymentRecorder) Record(record rewards.PaymentRecord) {
	stored := &records.PaymentRecord{
		FromWallet: record.FromWallet,
		ToWallet:   record.ToWallet,
		Amount:     record.Amount.String(),
		Hash:       record.Hash.ToHexString(),
		ContentID:  record.ContentID,
		Type:       record.Type,
		Timestamp:  record.Timestamp.Unix(),
	}

	err := recorder.Database.Backend.PutPayment(stored)
	if err != nil {
		log.Println("Error recording payment", stored.Hash, ":", err)
	}
}

// engagementSource reads the per-creator stats snapshot the product
// layer maintains.
type engagementSource struct {
	Database *database.Database
}

func (source *engagementSource) GetScores() ([]rewards.EngagementScore, error) {
	stats, err := source.Database.Backend.GetAllEngagement()
	if err != nil {
		return nil, err
	}

	scores := make([]rewards.EngagementScore, 0, len(stats))
	for address, stat := range stats {
		scores = append(scores, rewards.EngagementScore{
			Address:      address,
			ContentCount: stat.ContentCount,
			LikeCount:    stat.LikeCount,
		})
	}

	return scores, nil
}
