package chain

import (
	"bytes"         // Request body buffers
	"context"       // Request-scoped cancellation
	"encoding/json" // JSON-RPC encoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"math/big"      // Token balances can exceed uint64
	"net/http"      // HTTP client
	"regexp"        // Address shape validation
	"strings"       // Hex trimming
	"time"          // Client timeout
)

// balanceOf(address,uint256) function selector
const balanceOfSelector = "00fdd58e"

// Hex address shape: 0x followed by 40 hex characters
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ErrBadAddress is returned before any RPC call for a malformed owner address
var ErrBadAddress = errors.New("malformed wallet address")

// Ledger answers read-only token balance queries. The production
// implementation is the JSON-RPC client below; tests substitute fakes.
type Ledger interface {
	// BalanceOf returns how many units of tokenID the address owns
	BalanceOf(ctx context.Context, address string, tokenID int64) (*big.Int, error)
}

// Client is a minimal Ethereum JSON-RPC client for ERC-1155 balance reads
// against a single access contract.
type Client struct {
	rpcURL   string       // JSON-RPC endpoint
	contract string       // Access contract address
	client   *http.Client // HTTP client with a bounded timeout
}

// NewClient creates a ledger client for the given endpoint and contract
func NewClient(rpcURL, contract string) *Client {
	return &Client{
		rpcURL:   rpcURL,
		contract: contract,
		client:   &http.Client{Timeout: 10 * time.Second}, // Boundary timeout
	}
}

// rpcRequest is the JSON-RPC 2.0 request envelope
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"` // Always "2.0"
	ID      int    `json:"id"`      // Request id
	Method  string `json:"method"`  // RPC method
	Params  []any  `json:"params"`  // Method parameters
}

// rpcResponse is the JSON-RPC 2.0 response envelope
type rpcResponse struct {
	Result string `json:"result"` // Hex-encoded return data
	Error  *struct {
		Code    int    `json:"code"`    // RPC error code
		Message string `json:"message"` // RPC error message
	} `json:"error"`
}

// BalanceOf issues an eth_call for balanceOf(address, tokenID) and decodes
// the 32-byte result. Every call hits the chain; results are never cached.
func (c *Client) BalanceOf(ctx context.Context, address string, tokenID int64) (*big.Int, error) {
	// Reject malformed addresses before spending an RPC round trip
	if !addressPattern.MatchString(address) {
		return nil, ErrBadAddress
	}
	data, err := encodeBalanceOf(address, tokenID)
	if err != nil {
		return nil, err
	}
	// eth_call against the latest block
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "eth_call",
		Params: []any{
			map[string]string{"to": c.contract, "data": data}, // Call object
			"latest", // Block tag
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}
	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	// Decode the single uint256 return value
	hexResult := strings.TrimPrefix(out.Result, "0x")
	if hexResult == "" {
		return nil, fmt.Errorf("empty rpc result")
	}
	bal, ok := new(big.Int).SetString(hexResult, 16)
	if !ok {
		return nil, fmt.Errorf("malformed rpc result %q", out.Result)
	}
	return bal, nil
}

// Balances fetches the balance of several token ids for one owner, in order.
// Used by the debug balances endpoint.
func (c *Client) Balances(ctx context.Context, address string, tokenIDs ...int64) ([]*big.Int, error) {
	out := make([]*big.Int, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		bal, err := c.BalanceOf(ctx, address, id)
		if err != nil {
			return nil, err // First failure aborts the batch
		}
		out = append(out, bal)
	}
	return out, nil
}

// encodeBalanceOf builds the ABI call data: 4-byte selector, then the owner
// address and token id each left-padded to 32 bytes.
func encodeBalanceOf(address string, tokenID int64) (string, error) {
	if tokenID < 0 {
		return "", fmt.Errorf("negative token id %d", tokenID)
	}
	addrWord := strings.ToLower(strings.TrimPrefix(address, "0x"))
	idWord := fmt.Sprintf("%064x", tokenID) // uint256 word
	return "0x" + balanceOfSelector + strings.Repeat("0", 24) + addrWord + idWord, nil
}
