package xrpl_test

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/infra/gateway/xrpl"
	"github.com/xrpzip/walletd/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

// fakeNode is a websocket server that answers rippled commands with
// canned result payloads keyed by command name.
type fakeNode struct {
	server   *httptest.Server
	results  map[string]string
	errors   map[string]string
	requests []map[string]any
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	n := &fakeNode{
		results: make(map[string]string),
		errors:  make(map[string]string),
	}

	upgrader := websocket.Upgrader{}
	n.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		for {
			var req map[string]any
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			n.requests = append(n.requests, req)

			command, _ := req["command"].(string)
			resp := map[string]any{
				"id":   req["id"],
				"type": "response",
			}
			if code, ok := n.errors[command]; ok {
				resp["status"] = "error"
				resp["error"] = code
				resp["error_message"] = "fake error"
			} else {
				resp["status"] = "success"
				resp["result"] = json.RawMessage(n.results[command])
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	t.Cleanup(n.server.Close)
	return n
}

func (n *fakeNode) wsURL() string {
	return "ws" + strings.TrimPrefix(n.server.URL, "http")
}

func (n *fakeNode) lastRequest() map[string]any {
	if len(n.requests) == 0 {
		return nil
	}
	return n.requests[len(n.requests)-1]
}

// =============================================================================
// Balance
// =============================================================================

func TestClient_Balance(t *testing.T) {
	node := newFakeNode(t)
	node.results["account_info"] = `{
		"account_data": {"Account": "rA", "Balance": "25000000", "Sequence": 7},
		"validated": true
	}`

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	drops, err := client.Balance(context.Background(), "rA")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(25000000), drops)

	req := node.lastRequest()
	assert.Equal(t, "account_info", req["command"])
	assert.Equal(t, "rA", req["account"])
	assert.Equal(t, "validated", req["ledger_index"])
}

func TestClient_BalanceUnfundedAccountIsZero(t *testing.T) {
	node := newFakeNode(t)
	node.errors["account_info"] = "actNotFound"

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	drops, err := client.Balance(context.Background(), "rNew")
	require.NoError(t, err)
	assert.Equal(t, 0, drops.Sign())
}

// =============================================================================
// AccountTx
// =============================================================================

func TestClient_AccountTx(t *testing.T) {
	node := newFakeNode(t)
	node.results["account_tx"] = `{
		"account": "rA",
		"transactions": [
			{
				"hash": "H1",
				"ledger_index": 100,
				"validated": true,
				"close_time_iso": "2025-06-15T12:30:00Z",
				"tx_json": {
					"TransactionType": "Payment",
					"Account": "rA",
					"Destination": "rB",
					"DeliverMax": "1000000",
					"Fee": "12"
				},
				"meta": {"delivered_amount": "1000000", "TransactionResult": "tesSUCCESS"}
			}
		]
	}`

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	entries, err := client.AccountTx(context.Background(), "rA", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "H1", entries[0].Hash)

	req := node.lastRequest()
	assert.Equal(t, "account_tx", req["command"])
	assert.Equal(t, float64(10), req["limit"])
}

func TestClient_AccountTxNotFoundIsEmpty(t *testing.T) {
	node := newFakeNode(t)
	node.errors["account_tx"] = "actNotFound"

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	entries, err := client.AccountTx(context.Background(), "rNew", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryAdapter_SkipsBadEntries(t *testing.T) {
	node := newFakeNode(t)
	node.results["account_tx"] = `{
		"transactions": [
			{"hash": "EMPTY", "validated": true},
			{
				"hash": "GOOD",
				"validated": true,
				"tx_json": {
					"TransactionType": "Payment",
					"Account": "rA",
					"Destination": "rB",
					"DeliverMax": "3000000"
				},
				"meta": {"delivered_amount": "3000000"}
			}
		]
	}`

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	adapter := xrpl.NewHistoryAdapter(client, testLogger())
	records, err := adapter.AccountTransactions(context.Background(), "rA", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "GOOD", records[0].Hash)
}

// =============================================================================
// Submit
// =============================================================================

func TestClient_SubmitPayment(t *testing.T) {
	node := newFakeNode(t)
	node.results["submit"] = `{
		"engine_result": "tesSUCCESS",
		"engine_result_code": 0,
		"engine_result_message": "The transaction was applied.",
		"tx_json": {"hash": "SUBMITTED1"}
	}`

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	result, err := client.SubmitPayment(context.Background(), "sSEED", "rA", "rB", big.NewInt(1500000))
	require.NoError(t, err)
	assert.True(t, result.Accepted())
	assert.Equal(t, "SUBMITTED1", result.TxJSON.Hash)

	req := node.lastRequest()
	assert.Equal(t, "submit", req["command"])
	assert.Equal(t, "sSEED", req["secret"])
	txJSON := req["tx_json"].(map[string]any)
	assert.Equal(t, "Payment", txJSON["TransactionType"])
	assert.Equal(t, "rA", txJSON["Account"])
	assert.Equal(t, "rB", txJSON["Destination"])
	assert.Equal(t, "1500000", txJSON["Amount"])
}

// =============================================================================
// Error plumbing
// =============================================================================

func TestClient_APIErrorSurfaces(t *testing.T) {
	node := newFakeNode(t)
	node.errors["account_info"] = "invalidParams"

	client := xrpl.NewClient(node.wsURL(), testLogger())
	defer client.Close()

	_, err := client.AccountInfo(context.Background(), "bogus")
	require.Error(t, err)

	var apiErr *xrpl.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalidParams", apiErr.Code)
}

func TestClient_ContextCancellation(t *testing.T) {
	// A server that never answers.
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := xrpl.NewClient("ws"+strings.TrimPrefix(server.URL, "http"), testLogger())
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.AccountInfo(ctx, "rA")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RequestTimeoutBoundsSlowNode(t *testing.T) {
	// A server that never answers.
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client := xrpl.NewClient("ws"+strings.TrimPrefix(server.URL, "http"), testLogger()).
		WithRequestTimeout(100 * time.Millisecond)
	defer client.Close()

	// No deadline on the caller's context; the client's own must fire.
	_, err := client.AccountInfo(context.Background(), "rA")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ClosedClientRefusesRequests(t *testing.T) {
	node := newFakeNode(t)
	client := xrpl.NewClient(node.wsURL(), testLogger())
	require.NoError(t, client.Close())

	_, err := client.AccountInfo(context.Background(), "rA")
	assert.Error(t, err)
}
