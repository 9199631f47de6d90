package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/nano-wallet/internal/client"
	"github.com/AlexZinkM/nano-wallet/internal/crypto"
	"github.com/AlexZinkM/nano-wallet/internal/model"
	"github.com/AlexZinkM/nano-wallet/internal/wallet"
	"github.com/AlexZinkM/nano-wallet/nano"

	"github.com/stretchr/testify/require"
)

const (
	zeroSeed = "0000000000000000000000000000000000000000000000000000000000000000"
	account0 = "nano_3i1aq1cchnmbn9x5rsbap8b15akfh7wj7pwskuzi7ahz8oq6cobd99d4r3b7"
	outside  = "nano_1pu7p5n3ghq1i1p4rhmek41f5add1uh34xpb94nkbxe8g4a6x1p69emk8y1d"
)

func TestMain(m *testing.M) {
	if err := crypto.SetScryptN(1 << 10); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testServer struct {
	mux     *http.ServeMux
	session *wallet.Session
	path    string
}

// newTestServer wires the handler to a node that answers each action with
// a canned body. Unknown actions fail with 500.
func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()

	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Action string `json:"action"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body, ok := responses[req.Action]
		if !ok {
			http.Error(w, "unexpected action", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(node.Close)

	w, err := wallet.FromSeed(zeroSeed)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "wallet.txt")
	session := wallet.NewSession(path, w, []byte("pw"))

	orch, err := nano.New(session, client.NewNanoClient(client.NanoConfig{URL: node.URL}), nano.Config{})
	require.NoError(t, err)

	h := NewNanoHandler(orch)
	mux := http.NewServeMux()
	mux.HandleFunc("/nano/accounts", h.Accounts)
	mux.HandleFunc("/nano/accounts/find", h.FindAccount)
	mux.HandleFunc("/nano/save", h.Save)
	mux.HandleFunc("/nano/balance", h.GetBalance)
	mux.HandleFunc("/nano/history", h.TransactionHistory)
	mux.HandleFunc("/nano/send", h.Send)
	mux.HandleFunc("/nano/receive", h.Receive)
	mux.HandleFunc("/nano/receivable", h.GetReceivable)
	mux.HandleFunc("/nano/account", h.GetAccountInfo)
	mux.HandleFunc("/nano/representative", h.ChangeRepresentative)
	mux.HandleFunc("/nano/pow", h.Pow)
	mux.HandleFunc("/nano/convert", h.Convert)
	mux.HandleFunc("/nano/qr", h.PaymentQR)

	return &testServer{mux: mux, session: session, path: path}
}

func (s *testServer) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestAccountsEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/nano/accounts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "private")
	require.Len(t, body["accounts"], 1)

	rec, body = s.do(t, http.MethodPost, "/nano/accounts", model.AddAccountRequest{
		Metadata: map[string]any{"userId": "a"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.EqualValues(t, 1, body["accountIndex"])
	address := body["address"].(string)

	// Saved right away.
	w, _, err := wallet.Load(s.path, []byte("pw"))
	require.NoError(t, err)
	require.Len(t, w.Accounts, 2)

	rec, body = s.do(t, http.MethodPost, "/nano/accounts", model.AddAccountRequest{
		Metadata: map[string]any{"userId": "a"},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "duplicate_metadata", body["code"])
	require.Len(t, s.session.Accounts(), 2)

	rec, body = s.do(t, http.MethodGet, "/nano/accounts/find?metadata="+url.QueryEscape(`{"userId":"a"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, address, body["address"])

	rec, _ = s.do(t, http.MethodGet, "/nano/accounts/find?index=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/nano/accounts/find?index=9", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "account_not_found", body["code"])

	rec, _ = s.do(t, http.MethodGet, "/nano/accounts/find", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/nano/accounts", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec, body = s.do(t, http.MethodPost, "/nano/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
}

func TestSendInsufficientBalance(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, map[string]string{
		"account_info": `{"error":"Account not found"}`,
	})

	rec, body := s.do(t, http.MethodPost, "/nano/send", model.SendRequest{
		To:     []model.Destination{{Address: outside}},
		Amount: "0.001",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "insufficient_balance", body["code"])
	require.NotContains(t, body, "committed")
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodPost, "/nano/send", model.SendRequest{
		To:     []model.Destination{{Address: outside}},
		Amount: "0",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_amount", body["code"])

	rec, body = s.do(t, http.MethodPost, "/nano/send", model.SendRequest{
		To:     []model.Destination{{Address: "nano_x"}},
		Amount: "1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_address", body["code"])

	rec, _ = s.do(t, http.MethodGet, "/nano/send", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNodeDown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/nano/balance", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "network_failure", body["code"])
}

func TestReceiveAndBalance(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, map[string]string{
		"receivable":        `{"blocks":""}`,
		"accounts_balances": `{"balances":{"` + account0 + `":{"balance":"1500000000000000000000000000000","receivable":"0"}}}`,
	})

	rec, body := s.do(t, http.MethodPost, "/nano/receive", model.ReceiveRequest{Account: account0})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{account0: []any{}}, body["accounts"])

	// A legacy prefix still keys the result by the nano_ address.
	legacy := "xrb_" + strings.TrimPrefix(account0, "nano_")
	rec, body = s.do(t, http.MethodPost, "/nano/receive", model.ReceiveRequest{Account: legacy})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, map[string]any{account0: []any{}}, body["accounts"])

	rec, body = s.do(t, http.MethodPost, "/nano/receive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, body, "errors")

	rec, body = s.do(t, http.MethodGet, "/nano/balance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1.5", body["total_nano"])
}

func TestConvert(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/nano/convert?amount=0.001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1"+strings.Repeat("0", 27), body["result"])

	rec, body = s.do(t, http.MethodGet, "/nano/convert?amount=1500000000000000000000000000000&from=raw&to=xno", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1.5", body["result"])

	rec, body = s.do(t, http.MethodGet, "/nano/convert?amount=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_amount", body["code"])

	rec, _ = s.do(t, http.MethodGet, "/nano/convert?amount=1&from=btc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentQR(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	rec, body := s.do(t, http.MethodGet, "/nano/qr?amount=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nano:"+account0+"?amount=2000000000000000000000000000000", body["uri"])
	require.NotEmpty(t, body["qr"])
}

func TestHistoryValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, map[string]string{
		"account_history": `{"history":""}`,
	})

	rec, _ := s.do(t, http.MethodGet, "/nano/history?from=yesterday", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/nano/history?type=change", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/nano/history?minAmount=2&maxAmount=1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := s.do(t, http.MethodGet, "/nano/history?type=SEND", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, account0, body["address"])
	require.Equal(t, "0", body["total_sent"])
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	partial := &model.PartialOperationFailure{
		Committed: []*model.StateBlock{{Type: "state"}},
		Index:     1,
		Stage:     model.StagePublishing,
		Err:       model.ErrNetworkFailure,
	}

	rec := httptest.NewRecorder()
	writeError(rec, partial)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "partial_failure", resp.Code)
	require.Len(t, resp.Committed, 1)

	status, code := errorStatus(model.ErrInvalidPassword)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_password", code)

	status, _ = errorStatus(os.ErrPermission)
	require.Equal(t, http.StatusInternalServerError, status)
}

func TestReceivableAndAccountInfo(t *testing.T) {
	t.Parallel()

	hash := strings.Repeat("0F", 32)
	s := newTestServer(t, map[string]string{
		"receivable": `{"blocks":{"` + hash + `":{"amount":"2500000000000000000000000000000","source":"` + outside + `"}}}`,
		"account_info": `{"frontier":"991CF190094C00F0B68E2E5F75F6BEE95A2E0BD93CEAA4A6734DB9F19B728948",` +
			`"balance":"1000000000000000000000000000000","representative":"` + outside + `"}`,
	})

	rec, body := s.do(t, http.MethodGet, "/nano/receivable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	blocks := body["blocks"].([]any)
	require.Len(t, blocks, 1)
	entry := blocks[0].(map[string]any)
	require.Equal(t, hash, entry["hash"])
	require.Equal(t, "2.5", entry["amount_nano"])
	require.Equal(t, outside, entry["source"])

	rec, body = s.do(t, http.MethodGet, "/nano/account?account="+account0, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", body["balance_nano"])
	require.Equal(t, outside, body["representative"])
	require.Equal(t, true, body["opened"])
	require.Equal(t, false, body["unconfirmed"])

	rec, body = s.do(t, http.MethodGet, "/nano/account?account="+outside, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "account_not_found", body["code"])

	rec, _ = s.do(t, http.MethodPost, "/nano/receivable", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
