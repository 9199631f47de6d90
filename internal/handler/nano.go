package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/nano-wallet/internal/common"
	"github.com/AlexZinkM/nano-wallet/internal/keys"
	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// Send handles POST /nano/send
// @Summary      Send NANO
// @Description  Sends to one or more destinations, one block each, in order. On failure the
// @Description  error body lists the blocks already committed.
// @Tags         nano
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Payment data"
// @Success      200      {object}  model.SendResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /nano/send [post]
func (h *NanoHandler) Send(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	resp, err := h.orch.Send(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Receive handles POST /nano/receive
// @Summary      Receive pending blocks
// @Description  Pockets all receivable blocks of one account, or of every account when none is given
// @Tags         nano
// @Accept       json
// @Produce      json
// @Param        request  body      model.ReceiveRequest  false  "Account"
// @Success      200      {object}  model.ReceiveResponse
// @Router       /nano/receive [post]
func (h *NanoHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ReceiveRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	if req.Account == "" {
		writeJSON(w, http.StatusOK, h.orch.ReceiveAll(r.Context()))
		return
	}

	results, err := h.orch.Receive(r.Context(), req.Account)
	if err != nil {
		writeError(w, err)
		return
	}

	// Keyed like ReceiveAll, by the nano_ form of the address.
	account := req.Account
	if normalized, err := keys.NormalizeAddress(account); err == nil {
		account = normalized
	}
	writeJSON(w, http.StatusOK, model.ReceiveResponse{
		Accounts: map[string][]model.BlockResult{account: results},
	})
}

// GetReceivable handles GET /nano/receivable
// @Summary      List receivable blocks
// @Description  Lists send blocks waiting to be received by an account, without receiving them
// @Tags         nano
// @Produce      json
// @Param        account  query     string  false  "Account address (default: the only account)"
// @Success      200  {object}  model.ReceivableResponse
// @Router       /nano/receivable [get]
func (h *NanoHandler) GetReceivable(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	account := r.URL.Query().Get("account")
	entries, err := h.orch.Receivable(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := model.ReceivableResponse{Blocks: make([]model.ReceivableBlock, 0, len(entries))}
	for _, e := range entries {
		amount, err := common.ParseRaw(e.Amount)
		if err != nil {
			writeError(w, fmt.Errorf("%w: bad amount for %s: %v", model.ErrNetworkFailure, e.Hash, err))
			return
		}
		resp.Blocks = append(resp.Blocks, model.ReceivableBlock{
			Receivable: e,
			AmountNano: common.RawToNano(amount),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAccountInfo handles GET /nano/account
// @Summary      Account info
// @Description  Gets frontier, balance and representative of an account, including blocks the node has not confirmed yet
// @Tags         nano
// @Produce      json
// @Param        account  query     string  false  "Account address (default: the only account)"
// @Success      200  {object}  model.AccountInfoResponse
// @Router       /nano/account [get]
func (h *NanoHandler) GetAccountInfo(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	info, err := h.orch.AccountInfo(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ChangeRepresentative handles POST /nano/representative
// @Summary      Change representative
// @Description  Publishes a change block for an opened account
// @Tags         nano
// @Accept       json
// @Produce      json
// @Param        request  body      model.ChangeRequest  true  "Account and representative"
// @Success      200      {object}  model.BlockResult
// @Router       /nano/representative [post]
func (h *NanoHandler) ChangeRepresentative(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.orch.ChangeRepresentative(r.Context(), req.Account, req.Representative)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Pow handles POST /nano/pow
// @Summary      Generate work
// @Description  Requests proof of work for the next block of an account from the node
// @Tags         nano
// @Accept       json
// @Produce      json
// @Param        request  body      model.PowRequest  false  "Account and optional frontier"
// @Success      200      {object}  model.PowResponse
// @Router       /nano/pow [post]
func (h *NanoHandler) Pow(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.PowRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	resp, err := h.orch.Pow(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /nano/balance
// @Summary      Get balance
// @Description  Gets balance and receivable amount of one or all accounts, optionally valued in a fiat currency
// @Tags         nano
// @Produce      json
// @Param        account   query     string  false  "Account address (default: all)"
// @Param        currency  query     string  false  "Fiat currency, e.g. usd"
// @Success      200  {object}  model.BalanceResponse
// @Router       /nano/balance [get]
func (h *NanoHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	balance, err := h.orch.Balances(r.Context(), query.Get("account"), query.Get("currency"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// Convert handles GET /nano/convert
// @Summary      Convert units
// @Description  Converts an amount between NANO and RAW
// @Tags         nano
// @Produce      json
// @Param        amount  query     string  true   "Amount"
// @Param        from    query     string  false  "NANO or RAW (default NANO)"
// @Param        to      query     string  false  "NANO or RAW (default RAW)"
// @Success      200  {object}  model.ConvertResponse
// @Router       /nano/convert [get]
func (h *NanoHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	from, to := query.Get("from"), query.Get("to")
	if from == "" {
		from = string(common.UnitNano)
	}
	if to == "" {
		to = string(common.UnitRaw)
	}

	fromUnit, err := common.ParseUnit(from)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	toUnit, err := common.ParseUnit(to)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	amount := query.Get("amount")
	result, err := common.Convert(amount, fromUnit, toUnit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ConvertResponse{
		Amount: amount,
		From:   string(fromUnit),
		To:     string(toUnit),
		Result: result,
	})
}

// PaymentQR handles GET /nano/qr
// @Summary      Payment QR code
// @Description  Builds a nano: payment URI for an account and renders it as a base64 PNG
// @Tags         nano
// @Produce      json
// @Param        account  query     string  false  "Account address (default: the only account)"
// @Param        amount   query     string  false  "Requested amount in NANO"
// @Success      200  {object}  model.QRResponse
// @Router       /nano/qr [get]
func (h *NanoHandler) PaymentQR(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	resp, err := h.orch.PaymentQR(query.Get("account"), query.Get("amount"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /nano/history
// @Summary      Transaction history
// @Description  Gets send and receive history of an account with filtering, newest first
// @Tags         nano
// @Produce      json
// @Param        account    query     string   false  "Account address (default: the only account)"
// @Param        count      query     int      false  "Number of history entries to fetch (default 100)"
// @Param        type       query     string   false  "Transaction type: send or receive"
// @Param        hash       query     string   false  "Block hash"
// @Param        from       query     string   false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string   false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     string   false  "Minimum amount (NANO)"
// @Param        maxAmount  query     string   false  "Maximum amount (NANO)"
// @Success      200  {object}  model.HistoryResponse
// @Router       /nano/history [get]
func (h *NanoHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	req := model.HistoryRequest{Account: query.Get("account")}

	if countStr := query.Get("count"); countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			writeBadRequest(w, "invalid count")
			return
		}
		req.Count = count
	}

	// Parse date parameters (YYYY-MM-DD)
	const dateLayout = "2006-01-02"
	if fromStr := query.Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeBadRequest(w, "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)")
			return
		}
		req.From = &t
	}
	if toStr := query.Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeBadRequest(w, "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)")
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if typeStr := query.Get("type"); typeStr != "" {
		txType := model.TransactionType(strings.ToLower(typeStr))
		req.Type = &txType
	}
	if hash := query.Get("hash"); hash != "" {
		hash = strings.ToUpper(hash)
		req.Hash = &hash
	}
	if minAmount := query.Get("minAmount"); minAmount != "" {
		req.MinAmount = &minAmount
	}
	if maxAmount := query.Get("maxAmount"); maxAmount != "" {
		req.MaxAmount = &maxAmount
	}

	if err := req.Validate(); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	history, err := h.orch.History(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
