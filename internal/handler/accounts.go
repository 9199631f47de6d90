package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"
	"github.com/AlexZinkM/nano-wallet/nano"
)

// NanoHandler serves the wallet API
type NanoHandler struct {
	orch *nano.Orchestrator
}

// NewNanoHandler creates a new NanoHandler over an orchestrator
func NewNanoHandler(orch *nano.Orchestrator) *NanoHandler {
	return &NanoHandler{orch: orch}
}

// Accounts handles GET and POST /nano/accounts
func (h *NanoHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.ListAccounts(w, r)
	case http.MethodPost:
		h.AddAccount(w, r)
	default:
		http.Error(w, "Method not allowed. Should be GET or POST", http.StatusMethodNotAllowed)
	}
}

// ListAccounts handles GET /nano/accounts
// @Summary      List accounts
// @Description  Lists wallet accounts in derivation order, without private keys
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  model.AccountsResponse
// @Router       /nano/accounts [get]
func (h *NanoHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.orch.Session().Accounts()

	resp := model.AccountsResponse{Accounts: make([]model.PublicAccount, 0, len(accounts))}
	for _, acc := range accounts {
		resp.Accounts = append(resp.Accounts, acc.Public())
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddAccount handles POST /nano/accounts
// @Summary      Add account
// @Description  Derives the next account and saves the keystore. Metadata must be unique.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.AddAccountRequest  false  "Account metadata"
// @Success      201      {object}  model.PublicAccount
// @Failure      409      {object}  model.ErrorResponse
// @Router       /nano/accounts [post]
func (h *NanoHandler) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req model.AddAccountRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	session := h.orch.Session()
	acc, err := session.AddAccount(req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := session.Save(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, acc.Public())
}

// FindAccount handles GET /nano/accounts/find
// @Summary      Find account
// @Description  Finds an account by index, address, or metadata (JSON object, partial match)
// @Tags         accounts
// @Produce      json
// @Param        index     query     int     false  "Derivation index"
// @Param        address   query     string  false  "Account address"
// @Param        metadata  query     string  false  "Metadata JSON object"
// @Success      200  {object}  model.PublicAccount
// @Failure      404  {object}  model.ErrorResponse
// @Router       /nano/accounts/find [get]
func (h *NanoHandler) FindAccount(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	var c wallet.Criterion
	switch {
	case query.Get("index") != "":
		index, err := strconv.ParseUint(query.Get("index"), 10, 32)
		if err != nil {
			writeBadRequest(w, "invalid index")
			return
		}
		c = wallet.ByIndex(uint32(index))

	case query.Get("address") != "":
		c = wallet.ByAddress(query.Get("address"))

	case query.Get("metadata") != "":
		var metadata map[string]any
		if err := json.Unmarshal([]byte(query.Get("metadata")), &metadata); err != nil {
			writeBadRequest(w, "metadata must be a JSON object")
			return
		}
		c = wallet.ByMetadata(metadata)

	default:
		writeBadRequest(w, "one of index, address or metadata is required")
		return
	}

	acc, err := h.orch.Session().FindAccount(c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acc.Public())
}

// Save handles POST /nano/save
// @Summary      Save keystore
// @Description  Writes the wallet to the encrypted keystore file
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  model.SaveResponse
// @Router       /nano/save [post]
func (h *NanoHandler) Save(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.orch.Session().Save(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SaveResponse{
		Success: true,
		Message: "Wallet saved successfully",
	})
}
