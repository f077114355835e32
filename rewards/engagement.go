package rewards

import (
	"time"

	"github.com/nanogallery/nanopay/types"
)

// Engagement weights: 0.7 per content, 0.3 per like, carried per-mille
// so plan arithmetic stays exact in integer space.
const (
	ContentWeightPerMille = 700
	LikeWeightPerMille    = 300
)

// EngagementScore is a creator's activity snapshot for one distribution
// run.
type EngagementScore struct {
	Address      string `json:"address"`
	ContentCount uint64 `json:"content_count"`
	LikeCount    uint64 `json:"like_count"`
}

// Scaled is the per-mille score: contentCount*0.7 + likeCount*0.3,
// scaled by 1000.
func (score *EngagementScore) Scaled() uint64 {
	return score.ContentCount*ContentWeightPerMille + score.LikeCount*LikeWeightPerMille
}

// EngagementSource supplies the scores snapshot consumed once per
// distribution run.
type EngagementSource interface {
	GetScores() ([]EngagementScore, error)
}

// Payment types persisted alongside confirmed sends.
const (
	PaymentTypeUpvoteCreator = "upvote_creator"
	PaymentTypeUpvotePool    = "upvote_pool"
	PaymentTypeDistribution  = "distribution"
)

type PaymentRecord struct {
	FromWallet string
	ToWallet   string
	Amount     *types.Amount
	Hash       *types.Hash
	ContentID  string
	Type       string
	Timestamp  time.Time
}

// PaymentRecorder persists confirmed payments. Fire-and-forget: a
// recording failure never affects the transfer it describes.
type PaymentRecorder interface {
	Record(record PaymentRecord)
}
