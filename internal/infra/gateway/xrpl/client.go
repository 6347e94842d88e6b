package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/xrpzip/walletd/pkg/logger"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message.
	pongWait = 30 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// handshakeTimeout bounds the websocket dial.
	handshakeTimeout = 15 * time.Second
)

// Client is a request/reply client for a rippled websocket endpoint.
// Commands carry a numeric id; responses are matched back to the
// caller by that id. The connection is established lazily and
// re-established after a read failure on the next request.
type Client struct {
	wsURL   string
	logger  *logger.Logger
	timeout time.Duration // per-request deadline applied in Do; 0 leaves the caller's context alone

	mu     sync.Mutex // guards conn, closed and dialing
	conn   *websocket.Conn
	closed bool

	pendingMu sync.Mutex
	pending   map[int64]chan rpcReply
	nextID    int64
}

type rpcReply struct {
	result json.RawMessage
	err    error
}

// rpcEnvelope is the common frame of every rippled websocket response.
type rpcEnvelope struct {
	ID           int64           `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// NewClient creates a rippled websocket client.
//
// wsURL is the node endpoint, e.g. "wss://s.altnet.rippletest.net:51233".
func NewClient(wsURL string, log *logger.Logger) *Client {
	return &Client{
		wsURL:   wsURL,
		logger:  log.WithField("component", "xrpl"),
		pending: make(map[int64]chan rpcReply),
	}
}

// WithRequestTimeout bounds every request with its own deadline on top
// of whatever deadline the caller's context carries.
func (c *Client) WithRequestTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// Connect establishes the websocket session. Calling it is optional;
// the first request connects on demand.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(ctx context.Context) error {
	if c.closed {
		return fmt.Errorf("xrpl: client is closed")
	}
	if c.conn != nil {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("xrpl: connect %s: %w", c.wsURL, err)
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.conn = conn
	go c.readLoop(conn)
	go c.pingLoop(conn)

	c.logger.Info("connected", "url", c.wsURL)
	return nil
}

// Close shuts the client down. Pending requests fail with ErrNotConnected.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.failPending(ErrNotConnected)
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Do sends one command and waits for its matching response. params are
// merged into the request frame next to "id" and "command".
func (c *Client) Do(ctx context.Context, command string, params map[string]any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.mu.Lock()
	if err := c.connectLocked(ctx); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	conn := c.conn

	frame := make(map[string]any, len(params)+2)
	for k, v := range params {
		frame[k] = v
	}
	id := c.register()
	frame["id"] = id
	frame["command"] = command

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(frame)
	c.mu.Unlock()

	if err != nil {
		c.unregister(id)
		c.dropConn(conn, err)
		return nil, fmt.Errorf("xrpl: write %s: %w", command, err)
	}

	ch := c.waitCh(id)
	select {
	case <-ctx.Done():
		c.unregister(id)
		return nil, ctx.Err()
	case reply := <-ch:
		if reply.err != nil {
			return nil, reply.err
		}
		return reply.result, nil
	}
}

func (c *Client) register() int64 {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	c.nextID++
	id := c.nextID
	c.pending[id] = make(chan rpcReply, 1)
	return id
}

func (c *Client) waitCh(id int64) chan rpcReply {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return c.pending[id]
}

func (c *Client) unregister(id int64) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	delete(c.pending, id)
}

func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		ch <- rpcReply{err: err}
		delete(c.pending, id)
	}
}

// dropConn discards a broken connection so the next request redials.
func (c *Client) dropConn(conn *websocket.Conn, cause error) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
	conn.Close()
	c.failPending(ErrNotConnected)
	if !c.isClosed() {
		c.logger.Warn("connection dropped", "error", cause)
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropConn(conn, err)
			return
		}

		var env rpcEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("undecodable frame", "error", err)
			continue
		}
		if env.Type != "response" {
			// Server-side streams are not subscribed to; ignore.
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[env.ID]
		delete(c.pending, env.ID)
		c.pendingMu.Unlock()
		if !ok {
			continue
		}

		if env.Status != "success" {
			ch <- rpcReply{err: &APIError{Code: env.Error, Message: env.ErrorMessage}}
			continue
		}
		ch <- rpcReply{result: env.Result}
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		current := c.conn
		c.mu.Unlock()
		if current != conn {
			return
		}
		if err := ping(conn); err != nil {
			c.dropConn(conn, err)
			return
		}
	}
}

// ping sends a keepalive control frame. WriteControl is the only write
// allowed here: pingLoop does not hold c.mu, so a data frame write
// could interleave with a request write in Do.
func ping(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// AccountInfo fetches validated-ledger account data for an address.
func (c *Client) AccountInfo(ctx context.Context, address string) (*AccountInfoResult, error) {
	raw, err := c.Do(ctx, "account_info", map[string]any{
		"account":      address,
		"ledger_index": "validated",
	})
	if err != nil {
		return nil, fmt.Errorf("account_info %s: %w", address, err)
	}

	var result AccountInfoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("account_info: decode: %w", err)
	}
	return &result, nil
}

// Balance fetches the XRP balance in drops. An account the ledger has
// never seen reports zero rather than an error.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	info, err := c.AccountInfo(ctx, address)
	if err != nil {
		if IsNotFound(err) {
			return big.NewInt(0), nil
		}
		return nil, err
	}

	drops := new(big.Int)
	if _, ok := drops.SetString(info.AccountData.Balance, 10); !ok {
		return nil, fmt.Errorf("account_info: invalid balance %q", info.AccountData.Balance)
	}
	return drops, nil
}

// AccountTx fetches the most recent transactions touching an address,
// newest first, up to limit.
func (c *Client) AccountTx(ctx context.Context, address string, limit int) ([]AccountTxEntry, error) {
	start := time.Now()
	raw, err := c.Do(ctx, "account_tx", map[string]any{
		"account": address,
		"limit":   limit,
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("account_tx %s: %w", address, err)
	}

	var result accountTxResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("account_tx: decode: %w", err)
	}

	c.logger.Debug("transactions fetched",
		"address", address,
		"count", len(result.Transactions),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result.Transactions, nil
}

// SubmitPayment submits an XRP payment in sign-and-submit mode: the
// node derives the signing key from the family seed and autofills
// sequence and fee. Signing correctness is the node's guarantee.
func (c *Client) SubmitPayment(ctx context.Context, seed, from, to string, drops *big.Int) (*SubmitResult, error) {
	raw, err := c.Do(ctx, "submit", map[string]any{
		"secret": seed,
		"tx_json": map[string]any{
			"TransactionType": "Payment",
			"Account":         from,
			"Destination":     to,
			"Amount":          drops.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	var result SubmitResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("submit: decode: %w", err)
	}
	return &result, nil
}
