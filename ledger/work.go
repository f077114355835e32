package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/nanogallery/nanopay/types"
	"github.com/pkg/errors"
)

// WorkClient is the gateway to an external work-generation service.
// Proof-of-work computation itself stays outside this system.
type WorkClient struct {
	URL        string
	HTTPClient *http.Client
}

func NewWorkClient(url string) *WorkClient {
	return &WorkClient{
		URL:        url,
		HTTPClient: &http.Client{},
	}
}

func (client *WorkClient) GenerateWork(ctx context.Context, root *types.Hash, difficulty string) (*types.Work, error) {
	request := map[string]string{
		"action":     "work_generate",
		"hash":       root.ToHexString(),
		"difficulty": difficulty,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	http_request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	http_request.Header.Set("Content-Type", "application/json")

	http_response, err := client.HTTPClient.Do(http_request)
	if err != nil {
		return nil, errors.Wrapf(err, "work rpc for root %s", root.ToHexString())
	}
	defer http_response.Body.Close()

	body, err := io.ReadAll(http_response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading work response")
	}

	var response struct {
		Work  string `json:"work"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, "malformed work response")
	}

	if response.Error != "" {
		return nil, errors.New("work server: " + response.Error)
	}

	work, err := types.WorkFromString(response.Work)
	if err != nil {
		return nil, errors.Wrap(err, "malformed work value")
	}

	return work, nil
}
