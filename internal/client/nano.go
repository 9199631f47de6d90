package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/nano-wallet/internal/model"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"golang.org/x/time/rate"
)

const (
	// DefaultRPCURL is the public node used when none is configured
	DefaultRPCURL = "https://rpc.nano.to"

	defaultTimeout         = 15 * time.Second
	defaultReceivableCount = 100
	maxResponseSize        = 4 << 20

	accountNotFound = "Account not found"
)

// NodeError is an "error" field returned by the node
type NodeError struct {
	Action  string
	Message string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node rejected %s: %s", e.Action, e.Message)
}

func (e *NodeError) Unwrap() error {
	return model.ErrNetworkFailure
}

// NanoConfig configures NanoClient
type NanoConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
	// RateLimit is the maximum number of calls per second; zero disables limiting
	RateLimit float64
}

// NanoClient is a client for the Nano node JSON RPC
type NanoClient struct {
	url     string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewNanoClient creates a new node client
func NewNanoClient(cfg NanoConfig) *NanoClient {
	url := cfg.URL
	if url == "" {
		url = DefaultRPCURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &NanoClient{
		url:    url,
		apiKey: cfg.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// AccountInfo gets frontier, balance and representative. An account with no
// blocks yet is returned with Opened=false and a zero balance.
func (c *NanoClient) AccountInfo(ctx context.Context, account string) (*model.AccountInfo, error) {
	var resp struct {
		Frontier       string `json:"frontier"`
		Balance        string `json:"balance"`
		Representative string `json:"representative"`
	}
	err := c.call(ctx, "account_info", map[string]any{
		"account":        account,
		"representative": "true",
	}, &resp)

	var nodeErr *NodeError
	if errors.As(err, &nodeErr) && nodeErr.Message == accountNotFound {
		return &model.AccountInfo{Balance: "0"}, nil
	}
	if err != nil {
		return nil, err
	}

	return &model.AccountInfo{
		Frontier:       resp.Frontier,
		Balance:        resp.Balance,
		Representative: resp.Representative,
		Opened:         true,
	}, nil
}

// Receivable lists blocks waiting to be received, in the order the node
// returned them
func (c *NanoClient) Receivable(ctx context.Context, account string) ([]model.Receivable, error) {
	body, err := c.post(ctx, "receivable", map[string]any{
		"account": account,
		"count":   strconv.Itoa(defaultReceivableCount),
		"source":  "true",
	})
	if err != nil {
		return nil, err
	}

	receivable, err := parseReceivable(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode receivable: %v", model.ErrNetworkFailure, err)
	}
	return receivable, nil
}

// WorkGenerate asks the node for proof of work on root
func (c *NanoClient) WorkGenerate(ctx context.Context, root string) (string, error) {
	var resp struct {
		Work string `json:"work"`
	}
	if err := c.call(ctx, "work_generate", map[string]any{"hash": root}, &resp); err != nil {
		return "", err
	}
	if resp.Work == "" {
		return "", fmt.Errorf("%w: empty work", model.ErrNetworkFailure)
	}
	return resp.Work, nil
}

// AccountKey returns the public key of an address
func (c *NanoClient) AccountKey(ctx context.Context, account string) (string, error) {
	var resp struct {
		Key string `json:"key"`
	}
	if err := c.call(ctx, "account_key", map[string]any{"account": account}, &resp); err != nil {
		return "", err
	}
	return resp.Key, nil
}

// Process publishes a signed block and returns its hash
func (c *NanoClient) Process(ctx context.Context, block *model.StateBlock) (string, error) {
	var resp struct {
		Hash string `json:"hash"`
	}
	err := c.call(ctx, "process", map[string]any{
		"json_block": "true",
		"subtype":    block.Subtype,
		"block":      block,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Hash == "" {
		return "", fmt.Errorf("%w: process returned no hash", model.ErrNetworkFailure)
	}
	return resp.Hash, nil
}

// AccountsBalances gets balance and receivable amount (raw) for accounts
func (c *NanoClient) AccountsBalances(ctx context.Context, accounts []string) (map[string]model.AccountBalance, error) {
	var resp struct {
		Balances map[string]struct {
			Balance    string `json:"balance"`
			Pending    string `json:"pending"`
			Receivable string `json:"receivable"`
		} `json:"balances"`
	}
	if err := c.call(ctx, "accounts_balances", map[string]any{"accounts": accounts}, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]model.AccountBalance, len(resp.Balances))
	for address, b := range resp.Balances {
		receivable := b.Receivable
		if receivable == "" {
			receivable = b.Pending
		}
		if receivable == "" {
			receivable = "0"
		}
		out[address] = model.AccountBalance{
			Address:    address,
			Balance:    b.Balance,
			Receivable: receivable,
		}
	}
	return out, nil
}

// HistoryEntry is one account_history item
type HistoryEntry struct {
	Type      string
	Account   string
	Amount    string
	Hash      string
	Height    uint64
	Timestamp time.Time
	Confirmed bool
}

// AccountHistory gets up to count most recent send/receive entries
func (c *NanoClient) AccountHistory(ctx context.Context, account string, count int) ([]HistoryEntry, error) {
	var resp struct {
		History json.RawMessage `json:"history"`
	}
	err := c.call(ctx, "account_history", map[string]any{
		"account": account,
		"count":   strconv.Itoa(count),
	}, &resp)

	var nodeErr *NodeError
	if errors.As(err, &nodeErr) && nodeErr.Message == accountNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// An account without history returns "" instead of a list.
	var items []struct {
		Type           string `json:"type"`
		Account        string `json:"account"`
		Amount         string `json:"amount"`
		Hash           string `json:"hash"`
		Height         string `json:"height"`
		LocalTimestamp string `json:"local_timestamp"`
		Confirmed      string `json:"confirmed"`
	}
	if len(resp.History) > 0 && resp.History[0] == '[' {
		if err := json.Unmarshal(resp.History, &items); err != nil {
			return nil, fmt.Errorf("%w: failed to decode history: %v", model.ErrNetworkFailure, err)
		}
	}

	entries := make([]HistoryEntry, 0, len(items))
	for _, item := range items {
		height, _ := strconv.ParseUint(item.Height, 10, 64)
		seconds, _ := strconv.ParseInt(item.LocalTimestamp, 10, 64)
		entries = append(entries, HistoryEntry{
			Type:      item.Type,
			Account:   item.Account,
			Amount:    item.Amount,
			Hash:      item.Hash,
			Height:    height,
			Timestamp: time.Unix(seconds, 0).UTC(),
			Confirmed: item.Confirmed == "true",
		})
	}
	return entries, nil
}

// call posts an action and decodes the response into out
func (c *NanoClient) call(ctx context.Context, action string, params map[string]any, out any) error {
	body, err := c.post(ctx, action, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", model.ErrNetworkFailure, action, err)
	}
	return nil
}

// post sends {"action": action, ...params} and returns the raw response body
// after checking for a node error
func (c *NanoClient) post(ctx context.Context, action string, params map[string]any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrNetworkFailure, action, err)
	}

	payload := make(map[string]any, len(params)+1)
	for k, v := range params {
		payload[k] = v
	}
	payload["action"] = action

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	log.Debugf("Calling %v", action)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrNetworkFailure, action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s response: %v", model.ErrNetworkFailure, action, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", model.ErrNetworkFailure, action, resp.StatusCode)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %v", model.ErrNetworkFailure, action, err)
	}
	if errResp.Error != "" {
		log.Debugf("Node returned error for %v: %v", action, errResp.Error)
		return nil, &NodeError{Action: action, Message: errResp.Error}
	}

	return body, nil
}

// parseReceivable reads {"blocks": {hash: {"amount", "source"} | amount}}
// keeping the node's ordering. "blocks" is "" when nothing is receivable.
func parseReceivable(data []byte) ([]model.Receivable, error) {
	var out []model.Receivable

	r := jreader.NewReader(data)
	for obj := r.Object(); obj.Next(); {
		if string(obj.Name()) != "blocks" {
			_ = r.SkipValue()
			continue
		}

		blocks := r.Any()
		switch blocks.Kind {
		case jreader.ObjectValue:
		case jreader.ArrayValue:
			for arr := blocks.Array; arr.Next(); {
				_ = r.SkipValue()
			}
			continue
		default:
			continue
		}

		for entries := blocks.Object; entries.Next(); {
			entry := model.Receivable{Hash: string(entries.Name())}

			value := r.Any()
			switch value.Kind {
			case jreader.StringValue:
				entry.Amount = value.String
			case jreader.ObjectValue:
				for fields := value.Object; fields.Next(); {
					switch string(fields.Name()) {
					case "amount":
						entry.Amount = r.String()
					case "source":
						entry.Source = r.String()
					default:
						_ = r.SkipValue()
					}
				}
			case jreader.ArrayValue:
				for arr := value.Array; arr.Next(); {
					_ = r.SkipValue()
				}
			}

			out = append(out, entry)
		}
	}

	if err := r.Error(); err != nil {
		return nil, err
	}
	for _, entry := range out {
		if entry.Amount == "" {
			return nil, fmt.Errorf("receivable %s has no amount", entry.Hash)
		}
	}
	return out, nil
}
