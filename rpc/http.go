package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nanogallery/nanopay/database"
	"github.com/nanogallery/nanopay/ledger"
	"github.com/nanogallery/nanopay/rewards"
	"github.com/nanogallery/nanopay/types"
	"github.com/nanogallery/nanopay/utils"
	"github.com/nanogallery/nanopay/wallet"
)

type HTTPConfig struct {
	ListenAddr string
}

// HTTPRPCServer is the request/response boundary the product layer
// calls into. Business failures come back as structured results with
// success=false, never as HTTP errors.
type HTTPRPCServer struct {
	Config *HTTPConfig
	Server *http.Server

	Engine      *wallet.TransactionEngine
	Splitter    *rewards.RewardSplitter
	Distributor *rewards.PoolDistributor
	Ledger      *ledger.Client
	Database    *database.Database
}

func NewHTTPRPCServer(cfg *HTTPConfig) *HTTPRPCServer {
	server := HTTPRPCServer{
		Config: cfg,
	}

	router := mux.NewRouter()
	router.HandleFunc("/", server.Handle)

	server.Server = &http.Server{
		Handler: router,
		Addr:    cfg.ListenAddr,

		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &server
}

// parseAmount takes a raw string, or an XNO decimal string converted
// exactly at this boundary only.
func parseAmount(raw string, xno string) (*types.Amount, error) {
	if raw != "" {
		return types.AmountFromString(raw)
	}

	if xno != "" {
		return utils.XNOToRaw(xno)
	}

	return nil, wallet.ErrInvalidAmount
}

func errorJSON(err error) []byte {
	response, _ := json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, err.Error()})

	return response
}

func (srv *HTTPRPCServer) HandleSend(ctx context.Context, bodyStr []byte) ([]byte, error) {
	var body struct {
		From       string `json:"from"`
		PrivateKey string `json:"private_key"`
		To         string `json:"to"`
		Amount     string `json:"amount"`
		AmountXNO  string `json:"amount_xno"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	from, err := types.DecodeNanoAddress(body.From)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	to, err := types.DecodeNanoAddress(body.To)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	private_key, err := wallet.DecodePrivateKey(body.PrivateKey)
	if err != nil {
		return errorJSON(err), nil
	}

	amount, err := parseAmount(body.Amount, body.AmountXNO)
	if err != nil {
		return errorJSON(err), nil
	}

	result, err := srv.Engine.Send(ctx, from, private_key, to, amount)
	if err != nil {
		return errorJSON(err), nil
	}

	return json.Marshal(struct {
		Success bool               `json:"success"`
		Result  *wallet.SendResult `json:"result"`
	}{true, result})
}

func (srv *HTTPRPCServer) HandleReceiveAllPending(ctx context.Context, bodyStr []byte) ([]byte, error) {
	var body struct {
		Address    string `json:"address"`
		PrivateKey string `json:"private_key"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	address, err := types.DecodeNanoAddress(body.Address)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	private_key, err := wallet.DecodePrivateKey(body.PrivateKey)
	if err != nil {
		return errorJSON(err), nil
	}

	result, err := srv.Engine.ReceiveAllPending(ctx, address, private_key)
	if err != nil {
		return errorJSON(err), nil
	}

	return json.Marshal(struct {
		Success bool                     `json:"success"`
		Result  *wallet.ReceiveAllResult `json:"result"`
	}{true, result})
}

func (srv *HTTPRPCServer) HandleProcessUpvote(ctx context.Context, bodyStr []byte) ([]byte, error) {
	var body struct {
		Payer      string `json:"payer"`
		PrivateKey string `json:"private_key"`
		Creator    string `json:"creator"`
		ContentID  string `json:"content_id"`
		Amount     string `json:"amount"`
		AmountXNO  string `json:"amount_xno"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	payer, err := types.DecodeNanoAddress(body.Payer)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	creator, err := types.DecodeNanoAddress(body.Creator)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	private_key, err := wallet.DecodePrivateKey(body.PrivateKey)
	if err != nil {
		return errorJSON(err), nil
	}

	amount, err := parseAmount(body.Amount, body.AmountXNO)
	if err != nil {
		return errorJSON(err), nil
	}

	result := srv.Splitter.ProcessUpvote(ctx, payer, private_key, creator, body.ContentID, amount)

	return json.Marshal(result)
}

func (srv *HTTPRPCServer) HandleRunDistribution(ctx context.Context, bodyStr []byte) ([]byte, error) {
	var body struct {
		PrivateKey string `json:"private_key"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	private_key, err := wallet.DecodePrivateKey(body.PrivateKey)
	if err != nil {
		return errorJSON(err), nil
	}

	result := srv.Distributor.RunDistribution(ctx, srv.Splitter.PoolAddress, private_key)

	return json.Marshal(result)
}

func (srv *HTTPRPCServer) HandlePaymentHistory(bodyStr []byte) ([]byte, error) {
	var body struct {
		Address string `json:"address"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	if _, err := types.DecodeNanoAddress(body.Address); err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	payments, err := srv.Database.Backend.GetPayments(body.Address)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]interface{}{
		"success":  true,
		"payments": payments,
	})
}

func (srv *HTTPRPCServer) HandlePendingInfo(ctx context.Context, bodyStr []byte) ([]byte, error) {
	var body struct {
		Address string `json:"address"`
	}

	err := json.Unmarshal(bodyStr, &body)
	if err != nil {
		return nil, err
	}

	address, err := types.DecodeNanoAddress(body.Address)
	if err != nil {
		return errorJSON(wallet.ErrInvalidAddress), nil
	}

	entries, err := srv.Ledger.ListPending(ctx, address)
	if err != nil {
		return errorJSON(err), nil
	}

	pending := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		block_hash := entry.BlockHash

		pending = append(pending, map[string]string{
			"block_hash": block_hash.ToHexString(),
			"amount":     entry.Amount.String(),
			"source":     entry.Source.ToNanoAddress(),
		})
	}

	return json.Marshal(map[string]interface{}{
		"success": true,
		"pending": pending,
	})
}

func (srv *HTTPRPCServer) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		return
	}

	bodyStr, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	var reqBody struct{ Method string }
	err = json.Unmarshal(bodyStr, &reqBody)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	var response []byte

	switch reqBody.Method {
	case "send":
		response, err = srv.HandleSend(r.Context(), bodyStr)
	case "receive_all_pending":
		response, err = srv.HandleReceiveAllPending(r.Context(), bodyStr)
	case "process_upvote":
		response, err = srv.HandleProcessUpvote(r.Context(), bodyStr)
	case "run_distribution":
		response, err = srv.HandleRunDistribution(r.Context(), bodyStr)
	case "payment_history":
		response, err = srv.HandlePaymentHistory(bodyStr)
	case "pending_info":
		response, err = srv.HandlePendingInfo(r.Context(), bodyStr)
	default:
		err = fmt.Errorf("method %s is not supported", reqBody.Method)
	}

	if err != nil {
		w.Write(errorJSON(err))
	} else {
		w.Write(response)
	}
}

func (srv *HTTPRPCServer) Start() {
	err := srv.Server.ListenAndServe()

	log.Println("Error serving HTTP Server:", err)
}

func (srv *HTTPRPCServer) ValidateAndStart(engine *wallet.TransactionEngine, splitter *rewards.RewardSplitter, distributor *rewards.PoolDistributor, ledger_client *ledger.Client, db *database.Database) error {
	srv.Engine = engine
	srv.Splitter = splitter
	srv.Distributor = distributor
	srv.Ledger = ledger_client
	srv.Database = db

	log.Println("Starting HTTP RPC Server on", srv.Config.ListenAddr)

	go srv.Start()

	return nil
}
