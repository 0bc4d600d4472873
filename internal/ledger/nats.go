package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/relaymesh/relaycoord/internal/models"
)

// txRequest is the JSON request sent to the ledger service
type txRequest struct {
	Op           string  `json:"op"`
	NodeID       string  `json:"node_id"`
	OperatorID   string  `json:"operator_id"`
	CityID       string  `json:"city_id"`
	StakeAmount  float64 `json:"stake_amount"`
	Amount       float64 `json:"amount,omitempty"` // reward or slash amount, op-dependent
}

// txResponse is the JSON response from the ledger service
type txResponse struct {
	TxRef         string  `json:"tx_ref"`
	StakeReturned float64 `json:"stake_returned,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// NATSLedger implements Ledger over NATS request-reply.
// The ledger service listens on <prefix>.stake.lock, <prefix>.stake.release,
// <prefix>.reward.pay and <prefix>.slash and answers with a txResponse.
type NATSLedger struct {
	conn    *nats.Conn
	prefix  string
	timeout time.Duration
}

// NewNATSLedger connects to the ledger service via NATS
func NewNATSLedger(url, subjectPrefix string, timeout time.Duration) (*NATSLedger, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS ledger: %w", err)
	}

	return newNATSLedgerWithConn(conn, subjectPrefix, timeout), nil
}

// newNATSLedgerWithConn builds a ledger client on an existing connection (used in tests)
func newNATSLedgerWithConn(conn *nats.Conn, subjectPrefix string, timeout time.Duration) *NATSLedger {
	if subjectPrefix == "" {
		subjectPrefix = "ledger"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &NATSLedger{
		conn:    conn,
		prefix:  subjectPrefix,
		timeout: timeout,
	}
}

// LockStake locks the node's stake as collateral
func (l *NATSLedger) LockStake(ctx context.Context, node models.RelayNode) (TxResult, error) {
	resp, err := l.request(ctx, l.prefix+".stake.lock", txRequest{
		Op:          "stake_lock",
		NodeID:      node.ID,
		OperatorID:  node.OperatorID,
		CityID:      node.CityID,
		StakeAmount: node.StakeAmount,
	})
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: resp.TxRef}, nil
}

// ReleaseStake releases the stake and pays out the final reward amount
func (l *NATSLedger) ReleaseStake(ctx context.Context, node models.RelayNode, rewardAmount float64) (ReleaseResult, error) {
	resp, err := l.request(ctx, l.prefix+".stake.release", txRequest{
		Op:          "stake_release",
		NodeID:      node.ID,
		OperatorID:  node.OperatorID,
		CityID:      node.CityID,
		StakeAmount: node.StakeAmount,
		Amount:      rewardAmount,
	})
	if err != nil {
		return ReleaseResult{}, err
	}
	return ReleaseResult{TxRef: resp.TxRef, StakeReturned: resp.StakeReturned}, nil
}

// PayReward pays a periodic reward to the node's operator
func (l *NATSLedger) PayReward(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error) {
	resp, err := l.request(ctx, l.prefix+".reward.pay", txRequest{
		Op:         "reward_pay",
		NodeID:     node.ID,
		OperatorID: node.OperatorID,
		CityID:     node.CityID,
		Amount:     amount,
	})
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: resp.TxRef}, nil
}

// Slash removes the given amount from the node's locked stake
func (l *NATSLedger) Slash(ctx context.Context, node models.RelayNode, amount float64) (TxResult, error) {
	resp, err := l.request(ctx, l.prefix+".slash", txRequest{
		Op:          "slash",
		NodeID:      node.ID,
		OperatorID:  node.OperatorID,
		CityID:      node.CityID,
		StakeAmount: node.StakeAmount,
		Amount:      amount,
	})
	if err != nil {
		return TxResult{}, err
	}
	return TxResult{TxRef: resp.TxRef}, nil
}

// Close closes the NATS connection
func (l *NATSLedger) Close() error {
	l.conn.Close()
	return nil
}

// request executes one request-reply round trip with the configured timeout
func (l *NATSLedger) request(ctx context.Context, subject string, req txRequest) (txResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return txResponse{}, fmt.Errorf("failed to marshal ledger request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	msg, err := l.conn.RequestWithContext(reqCtx, subject, data)
	if err != nil {
		return txResponse{}, fmt.Errorf("%w: %s: %v", ErrLedgerUnavailable, subject, err)
	}

	var resp txResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return txResponse{}, fmt.Errorf("%w: invalid response on %s: %v", ErrLedgerUnavailable, subject, err)
	}

	if resp.Error != "" {
		return txResponse{}, fmt.Errorf("%w: %s: %s", ErrLedgerUnavailable, subject, resp.Error)
	}

	return resp, nil
}
