package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/nano-wallet/internal/model"
)

// errorKinds maps error kinds to HTTP status and response code, checked in
// order with errors.Is
var errorKinds = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{model.ErrInvalidAddress, http.StatusBadRequest, "invalid_address"},
	{model.ErrInvalidMnemonic, http.StatusBadRequest, "invalid_mnemonic"},
	{model.ErrAmbiguousSource, http.StatusBadRequest, "ambiguous_source"},
	{model.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{model.ErrUnopenedAccount, http.StatusUnprocessableEntity, "unopened_account"},
	{model.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{model.ErrDuplicateMetadata, http.StatusConflict, "duplicate_metadata"},
	{model.ErrLedgerMismatch, http.StatusConflict, "ledger_mismatch"},
	{model.ErrNetworkFailure, http.StatusBadGateway, "network_failure"},
	{model.ErrInvalidPassword, http.StatusUnauthorized, "invalid_password"},
	{model.ErrCorruptKeystore, http.StatusInternalServerError, "corrupt_keystore"},
}

// errorStatus returns the HTTP status and code for err
func errorStatus(err error) (int, string) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.status, kind.code
		}
	}
	return http.StatusInternalServerError, ""
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("Failed to write response: %v", err)
	}
}

// writeError writes err as a model.ErrorResponse. Blocks committed before
// a partial failure are included so the caller knows what went through.
func writeError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)

	resp := model.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	}

	var partial *model.PartialOperationFailure
	if errors.As(err, &partial) {
		resp.Committed = partial.Committed
		if len(partial.Committed) > 0 {
			code = "partial_failure"
			resp.Code = code
		}
	}

	if status >= http.StatusInternalServerError {
		log.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, resp)
}

// writeBadRequest reports a malformed request
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: msg, Code: "bad_request"})
}

// allowMethod rejects requests with any other method
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}
