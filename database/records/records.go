package records

// PaymentRecord is persisted if and only if the corresponding send block
// was confirmed by the ledger (a hash came back).
type PaymentRecord struct {
	FromWallet string `json:"from_wallet"`
	ToWallet   string `json:"to_wallet"`
	Amount     string `json:"amount"`
	Hash       string `json:"hash"`
	ContentID  string `json:"content_id,omitempty"`
	Type       string `json:"type"`
	Timestamp  int64  `json:"timestamp"`
}

// EngagementStat is maintained by the product layer per creator address
// and consumed once per distribution run.
type EngagementStat struct {
	ContentCount uint64 `json:"content_count"`
	LikeCount    uint64 `json:"like_count"`
}
