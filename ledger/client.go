package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/wallet"
	"github.com/pkg/errors"
)

type Config struct {
	NodeURL string
	WorkURL string
}

// Client is a thin typed gateway to the ledger RPC node. No business
// logic; node errors are mapped onto the engine's taxonomy.
type Client struct {
	URL        string
	HTTPClient *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		URL:        url,
		HTTPClient: &http.Client{},
	}
}

func (client *Client) call(ctx context.Context, request interface{}, response interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}

	http_request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	http_request.Header.Set("Content-Type", "application/json")

	http_response, err := client.HTTPClient.Do(http_request)
	if err != nil {
		return errors.Wrapf(wallet.ErrLedgerUnavailable, "node rpc: %v", err)
	}
	defer http_response.Body.Close()

	body, err := io.ReadAll(http_response.Body)
	if err != nil {
		return errors.Wrapf(wallet.ErrLedgerUnavailable, "reading node response: %v", err)
	}

	var node_error struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &node_error); err == nil && node_error.Error != "" {
		return mapNodeError(node_error.Error)
	}

	return json.Unmarshal(body, response)
}

// mapNodeError translates the node's error strings onto the engine's
// failure taxonomy. Fork and stale-previous rejections are state
// conflicts the engine may retry with fresh state; everything else is a
// terminal submission rejection.
func mapNodeError(message string) error {
	lowered := strings.ToLower(message)

	switch {
	case strings.Contains(lowered, "account not found"):
		return wallet.ErrAccountNotFound
	case strings.Contains(lowered, "fork"),
		strings.Contains(lowered, "old block"),
		strings.Contains(lowered, "gap previous"),
		strings.Contains(lowered, "gap source"):
		return errors.Wrap(wallet.ErrStateConflict, message)
	}

	return errors.Wrap(wallet.ErrSubmissionRejected, message)
}

func (client *Client) GetAccountState(ctx context.Context, address *types.Address) (*types.AccountState, error) {
	request := map[string]string{
		"action":         "account_info",
		"account":        address.ToNanoAddress(),
		"representative": "true",
	}

	var response struct {
		Frontier       string `json:"frontier"`
		Representative string `json:"representative"`
		Balance        string `json:"balance"`
	}

	if err := client.call(ctx, request, &response); err != nil {
		return nil, err
	}

	frontier, err := types.StringToHash(response.Frontier)
	if err != nil {
		return nil, errors.Wrapf(wallet.ErrLedgerUnavailable, "node returned malformed frontier: %v", err)
	}

	representative, err := types.DecodeNanoAddress(response.Representative)
	if err != nil {
		return nil, errors.Wrapf(wallet.ErrLedgerUnavailable, "node returned malformed representative: %v", err)
	}

	balance, err := types.AmountFromString(response.Balance)
	if err != nil {
		return nil, errors.Wrapf(wallet.ErrLedgerUnavailable, "node returned malformed balance: %v", err)
	}

	return &types.AccountState{
		Address:        *address,
		Frontier:       *frontier,
		Representative: *representative,
		Balance:        balance,
		Opened:         true,
	}, nil
}

func (client *Client) ListPending(ctx context.Context, address *types.Address) ([]*types.PendingEntry, error) {
	request := map[string]string{
		"action":                 "pending",
		"account":                address.ToNanoAddress(),
		"count":                  "128",
		"source":                 "true",
		"include_only_confirmed": "true",
	}

	var response struct {
		Blocks json.RawMessage `json:"blocks"`
	}

	if err := client.call(ctx, request, &response); err != nil {
		if errors.Is(err, wallet.ErrAccountNotFound) {
			return nil, nil
		}

		return nil, err
	}

	// An empty pending pool comes back as "" instead of an object.
	trimmed := strings.TrimSpace(string(response.Blocks))
	if trimmed == "" || trimmed == `""` || trimmed == "null" {
		return nil, nil
	}

	var blocks map[string]struct {
		Amount string `json:"amount"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(response.Blocks, &blocks); err != nil {
		return nil, errors.Wrapf(wallet.ErrLedgerUnavailable, "node returned malformed pending list: %v", err)
	}

	entries := make([]*types.PendingEntry, 0, len(blocks))
	for block_hash, info := range blocks {
		hash, err := types.StringToHash(block_hash)
		if err != nil {
			continue
		}

		amount, err := types.AmountFromString(info.Amount)
		if err != nil {
			continue
		}

		source, err := types.DecodeNanoAddress(info.Source)
		if err != nil {
			continue
		}

		entries = append(entries, &types.PendingEntry{
			BlockHash: *hash,
			Amount:    amount,
			Source:    *source,
		})
	}

	return entries, nil
}

func (client *Client) SubmitBlock(ctx context.Context, block *types.Block) (*types.Hash, error) {
	request := map[string]interface{}{
		"action":     "process",
		"json_block": "true",
		"subtype":    string(block.Subtype),
		"block": map[string]string{
			"type":           "state",
			"account":        block.Account.ToNanoAddress(),
			"previous":       block.Previous.ToHexString(),
			"representative": block.Representative.ToNanoAddress(),
			"balance":        block.Balance.String(),
			"link":           block.Link.ToHexString(),
			"signature":      block.Signature.ToHexString(),
			"work":           block.Work.ToHexString(),
		},
	}

	var response struct {
		Hash string `json:"hash"`
	}

	if err := client.call(ctx, request, &response); err != nil {
		return nil, err
	}

	hash, err := types.StringToHash(response.Hash)
	if err != nil {
		return nil, errors.Wrapf(wallet.ErrLedgerUnavailable, "node returned malformed block hash: %v", err)
	}

	return hash, nil
}
